package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// RoomAdmin extends the catalog with the administrative create operation used
// by the seed path. The reservation core itself never creates rooms.
type RoomAdmin interface {
	RoomCatalog
	CreateRoom(ctx context.Context, room Room) error
}

// RoomService exposes the room catalog to the transport and the
// administrative provisioning path.
type RoomService struct {
	rooms       RoomAdmin
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms RoomAdmin, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger wires dependencies and attaches a base logger.
func NewRoomServiceWithLogger(rooms RoomAdmin, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// List returns the room catalog ordered by name.
func (s *RoomService) List(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	ordered := make([]Room, len(rooms))
	copy(ordered, rooms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name == ordered[j].Name {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered, nil
}

// Create registers a new room. Only the administrative path calls this.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	if strings.TrimSpace(input.Name) == "" {
		return Room{}, fmt.Errorf("%w: name", ErrMissingField)
	}

	createdAt := s.now()
	room := Room{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(input.Name),
		Capacity:    input.Capacity,
		Description: input.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return Room{}, mapRepositoryError(err)
	}

	serviceLogger(ctx, s.logger, "room", "create").InfoContext(ctx,
		"room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}
