package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/acharyahabba/vtufest-api/internal/models"
)

// EventTableDescriptor names one per-event participation table and the column
// that tags a person's role inside it. The tables are owned by the event
// registration system; this service only reads them.
type EventTableDescriptor struct {
	Table      string
	RoleColumn string
}

// eventTables is the registered catalog. Adding an event to the festival means
// appending its table here; every call site iterates the catalog generically.
var eventTables = []EventTableDescriptor{
	{Table: "event_classical_vocal_solo", RoleColumn: "person_type"},
	{Table: "event_classical_instrumental_solo", RoleColumn: "person_type"},
	{Table: "event_light_vocal_solo", RoleColumn: "person_type"},
	{Table: "event_western_vocal_solo", RoleColumn: "person_type"},
	{Table: "event_group_song_indian", RoleColumn: "person_type"},
	{Table: "event_group_song_western", RoleColumn: "person_type"},
	{Table: "event_folk_orchestra", RoleColumn: "person_type"},
	{Table: "event_percussion_solo", RoleColumn: "person_type"},
	{Table: "event_classical_dance_solo", RoleColumn: "person_type"},
	{Table: "event_folk_dance", RoleColumn: "person_type"},
	{Table: "event_skit", RoleColumn: "person_type"},
	{Table: "event_mime", RoleColumn: "person_type"},
	{Table: "event_mimicry", RoleColumn: "person_type"},
	{Table: "event_one_act_play", RoleColumn: "person_type"},
	{Table: "event_debate", RoleColumn: "person_type"},
	{Table: "event_elocution", RoleColumn: "person_type"},
	{Table: "event_quiz", RoleColumn: "person_type"},
	{Table: "event_on_spot_painting", RoleColumn: "person_type"},
	{Table: "event_collage", RoleColumn: "person_type"},
	{Table: "event_poster_making", RoleColumn: "person_type"},
	{Table: "event_clay_modelling", RoleColumn: "person_type"},
	{Table: "event_cartooning", RoleColumn: "person_type"},
	{Table: "event_rangoli", RoleColumn: "person_type"},
	{Table: "event_spot_photography", RoleColumn: "person_type"},
	// Pre-catalog tables kept their original role column name.
	{Table: "event_installation", RoleColumn: "participant_role"},
	{Table: "event_fashion_show", RoleColumn: "participant_role"},
}

// EventCatalog answers existence questions across the full per-event table
// fan-out with a single generated query instead of table-by-table special
// cases.
type EventCatalog struct {
	tables []EventTableDescriptor
}

// NewEventCatalog builds the catalog over the registered event tables.
func NewEventCatalog() *EventCatalog {
	return &EventCatalog{tables: eventTables}
}

// NewEventCatalogWith builds a catalog over an explicit descriptor list.
func NewEventCatalogWith(tables []EventTableDescriptor) *EventCatalog {
	return &EventCatalog{tables: tables}
}

// Size returns the number of registered event tables.
func (c *EventCatalog) Size() int {
	return len(c.tables)
}

// HasParticipation reports whether the person holds at least one row, in the
// given role, in any event table. Accepts either the pooled DB or an open
// transaction so finalisation can scan inside its own snapshot.
func (c *EventCatalog) HasParticipation(ctx context.Context, q sqlx.QueryerContext, personID int64, role models.PersonType) (bool, error) {
	if len(c.tables) == 0 {
		return false, nil
	}
	branches := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		branches = append(branches, fmt.Sprintf("SELECT 1 FROM %s WHERE person_id = $1 AND %s = $2", t.Table, t.RoleColumn))
	}
	query := fmt.Sprintf("SELECT EXISTS (%s)", strings.Join(branches, " UNION ALL "))

	var exists bool
	if err := sqlx.GetContext(ctx, q, &exists, query, personID, role); err != nil {
		return false, fmt.Errorf("scan event catalog for person %d: %w", personID, err)
	}
	return exists, nil
}

// CountEventsWithEntries returns how many events have at least one row for
// the college.
func (c *EventCatalog) CountEventsWithEntries(ctx context.Context, q sqlx.QueryerContext, collegeID int64) (int, error) {
	if len(c.tables) == 0 {
		return 0, nil
	}
	branches := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		branches = append(branches, fmt.Sprintf("(SELECT 1 FROM %s WHERE college_id = $1 LIMIT 1)", t.Table))
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM (%s) occupied", strings.Join(branches, " UNION ALL "))

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, collegeID); err != nil {
		return 0, fmt.Errorf("count occupied events for college %d: %w", collegeID, err)
	}
	return count, nil
}
