package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/peer-support/internal/domain"
)

func sampleRecords() []domain.MessageRecord {
	created := time.Date(2026, 3, 2, 15, 4, 5, 123456789, time.UTC)
	return []domain.MessageRecord{
		{
			ID:               "b",
			TrackingCode:     "ABCD2345",
			Category:         domain.CategoryMentalHealth,
			DeclaredUrgency:  domain.UrgencyLow,
			EffectiveUrgency: domain.UrgencyUrgent,
			Mood:             domain.MoodVeryBad,
			Body:             "me siento desesperado y quiero matarme",
			Status:           domain.MessageStatusResponded,
			CrisisDetected:   true,
			CrisisLevel:      domain.CrisisLevelCritical,
			CrisisScore:      15,
			CrisisKeywords:   []string{"matarme", "desesperado"},
			CrisisCategories: []string{"suicidio", "angustia"},
			Replies: []domain.Reply{
				{Author: domain.ReplyAuthorCounselor, Text: "Estoy aquí", Timestamp: created.Add(time.Minute)},
				{Author: domain.ReplyAuthorSubmitter, Text: "gracias", Timestamp: created.Add(2 * time.Minute)},
			},
			CounselorNotes: "llamar hoy",
			CreatedAt:      created,
			UpdatedAt:      created.Add(2 * time.Minute),
		},
		{
			ID:               "a",
			TrackingCode:     "WXYZ6789",
			Category:         domain.CategoryAcademic,
			DeclaredUrgency:  domain.UrgencyMedium,
			EffectiveUrgency: domain.UrgencyMedium,
			Mood:             domain.MoodNeutral,
			Body:             "dudas sobre el examen",
			Status:           domain.MessageStatusNew,
			CrisisLevel:      domain.CrisisLevelNone,
			CrisisKeywords:   []string{},
			CrisisCategories: []string{},
			Replies:          []domain.Reply{},
			CounselorNotes:   "",
			CreatedAt:        created.Add(-time.Hour),
			UpdatedAt:        created.Add(-time.Hour),
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	records := sampleRecords()

	require.NoError(t, store.SaveAll(ctx, records))
	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, records, loaded)
}

func TestMemoryStoreEmpty(t *testing.T) {
	loaded, err := NewMemoryStore().LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	records := sampleRecords()
	require.NoError(t, store.SaveAll(ctx, records))

	records[0].Replies[0].Text = "changed after save"
	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Estoy aquí", loaded[0].Replies[0].Text)

	loaded[1].Body = "changed after load"
	again, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dudas sobre el examen", again[1].Body)
}

func TestEncodeRecordsWritesEmptyArrays(t *testing.T) {
	data, err := EncodeRecords([]domain.MessageRecord{{ID: "x"}})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"crisisKeywords":[]`)
	assert.Contains(t, s, `"crisisCategories":[]`)
	assert.Contains(t, s, `"replies":[]`)
	assert.Contains(t, s, `"counselorNotes":""`)
}

func TestDecodeRecordsKeepsKeywordSequence(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"id":"x","crisisKeywords":["morir"],"replies":null}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"morir"}, records[0].CrisisKeywords)
	assert.NotNil(t, records[0].Replies)
}

func TestDecodeRecordsRejectsGarbage(t *testing.T) {
	_, err := DecodeRecords([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeRecordsNullCollection(t *testing.T) {
	records, err := DecodeRecords([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()
	assert.ErrorIs(t, store.SaveAll(ctx, nil), context.Canceled)
	_, err := store.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
