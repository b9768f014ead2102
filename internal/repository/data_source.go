package repository

import (
	"context"

	"github.com/lingora/lingora-api/internal/models"
)

// MentorDataSource joins the mentor and availability stores so the cache
// always holds mentors with their declared ranges attached. It implements
// cache.MentorDataSource.
type MentorDataSource struct {
	mentors      MentorStore
	availability AvailabilityStore
}

// NewMentorDataSource creates the stitching data source backing the cache
func NewMentorDataSource(mentors MentorStore, availability AvailabilityStore) *MentorDataSource {
	return &MentorDataSource{mentors: mentors, availability: availability}
}

// GetAllMentors fetches all mentors with availability attached, using a
// single availability round-trip for the whole set.
func (ds *MentorDataSource) GetAllMentors(ctx context.Context) ([]*models.Mentor, error) {
	mentors, err := ds.mentors.GetAllMentors(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := ds.availability.GetAllSlots(ctx)
	if err != nil {
		return nil, err
	}

	byMentor := make(map[string][]*models.AvailabilitySlot, len(mentors))
	for _, slot := range slots {
		byMentor[slot.MentorID] = append(byMentor[slot.MentorID], slot)
	}

	for _, mentor := range mentors {
		mentor.Availability = byMentor[mentor.ID]
		if mentor.Availability == nil {
			mentor.Availability = []*models.AvailabilitySlot{}
		}
	}

	return mentors, nil
}

// GetMentorByID fetches one mentor with availability attached
func (ds *MentorDataSource) GetMentorByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, err := ds.mentors.GetMentorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slots, err := ds.availability.GetSlotsByMentor(ctx, id)
	if err != nil {
		return nil, err
	}
	mentor.Availability = slots

	return mentor, nil
}
