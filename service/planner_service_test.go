package service

import (
	"context"
	"errors"
	"testing"

	"layer-backend/errs"
	"layer-backend/models"
	"layer-backend/repository"

	"github.com/stretchr/testify/require"
)

func newPlanner(store *repository.MemoryStore, fc Completer) *PlannerService {
	outfits := newOutfitService(store)
	return NewPlannerService(
		PlannerWithPlannerRepository(store.Planner()),
		PlannerWithItemRepository(store.Items()),
		PlannerWithOutfitRepository(store.Outfits()),
		PlannerWithOutfitService(outfits),
		PlannerWithGenerationClient(NewGenerationClient(fc)),
	)
}

func slot(week []models.PlannedDay, day models.Weekday) models.PlannedDay {
	for _, d := range week {
		if d.Day == day {
			return d
		}
	}
	return models.PlannedDay{}
}

func TestPlanner_GetWeekAlwaysSevenSlots(t *testing.T) {
	store := repository.NewMemoryStore()
	p := newPlanner(store, newFakeCompleter())

	week, err := p.GetWeek(context.Background(), starter)
	require.NoError(t, err)
	require.Len(t, week, 7)
	require.Equal(t, models.Monday, week[0].Day)
	require.Equal(t, models.Sunday, week[6].Day)
}

func TestPlanner_AutoScheduleMatchesDayPrefixes(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "C")
	fc := newFakeCompleter().reply(GenerateSchedule, `{"schedule":[
		{"day":"Wednesday","description":"Midweek","note":"Big meeting","itemIds":["A","ghost"]},
		{"day":"Funday","description":"Nope","note":"x","itemIds":["B"]},
		{"day":"mon","description":"Start","note":"Gym after","itemIds":["C"]}
	]}`)
	p := newPlanner(store, fc)
	ctx := context.Background()

	res, err := p.AutoSchedule(ctx, pro, "Sunny, 22°C")
	require.NoError(t, err)

	require.Equal(t, []string{"Funday"}, res.DroppedDays)
	require.Len(t, res.Outfits, 2)

	wed := slot(res.Week, models.Wednesday)
	require.NotNil(t, wed.OutfitID)
	require.Equal(t, "Big meeting", wed.Note)
	mon := slot(res.Week, models.Monday)
	require.NotNil(t, mon.OutfitID)
	require.Equal(t, "Gym after", mon.Note)
	for _, d := range []models.Weekday{models.Tuesday, models.Thursday, models.Friday, models.Saturday, models.Sunday} {
		require.Nil(t, slot(res.Week, d).OutfitID, d)
	}

	saved, err := store.Outfits().GetByID(ctx, pro.UserID, *wed.OutfitID)
	require.NoError(t, err)
	require.Equal(t, "Midweek", saved.Description)
	require.Equal(t, "Big meeting", saved.Reasoning)
	require.Equal(t, []string{"A"}, saved.ItemIDs)
}

func TestPlanner_AutoScheduleRepairsEntries(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "C")
	ctx := context.Background()
	existing := "kept"
	require.NoError(t, store.Planner().SetDay(ctx, pro.UserID, models.PlannedDay{Day: models.Tuesday, OutfitID: &existing, Note: "n"}))

	fc := newFakeCompleter().reply(GenerateSchedule, `{"schedule":[
		{"day":"Tue","itemIds":["ghost1","ghost2"]},
		{"day":"Wed","description":"  ","itemIds":["B","B"]}
	]}`)
	p := newPlanner(store, fc)

	res, err := p.AutoSchedule(ctx, pro, "Mild")
	require.NoError(t, err)
	require.Equal(t, []string{"Tue"}, res.RejectedDays)
	require.Empty(t, res.DroppedDays)
	require.Len(t, res.Outfits, 1)

	require.Equal(t, "kept", *slot(res.Week, models.Tuesday).OutfitID)

	wed := slot(res.Week, models.Wednesday)
	require.NotNil(t, wed.OutfitID)
	saved, err := store.Outfits().GetByID(ctx, pro.UserID, *wed.OutfitID)
	require.NoError(t, err)
	require.Equal(t, "Wed Look", saved.Description)
	require.Equal(t, "Planned for Wed.", saved.Reasoning)
	require.Equal(t, []string{"B"}, saved.ItemIDs)

	outfits, err := store.Outfits().ListByUserID(ctx, pro.UserID)
	require.NoError(t, err)
	require.Len(t, outfits, 1)
}

func TestPlanner_AutoScheduleErrorLeavesWeekAlone(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B", "C")
	ctx := context.Background()
	existing := "kept"
	require.NoError(t, store.Planner().SetDay(ctx, pro.UserID, models.PlannedDay{Day: models.Friday, OutfitID: &existing, Note: "n"}))

	fc := newFakeCompleter().fail(GenerateSchedule, errors.New("deadline exceeded"))
	p := newPlanner(store, fc)

	_, err := p.AutoSchedule(ctx, pro, "Cold")
	requireCode(t, err, "SCHEDULE_FAILED")
	require.Equal(t, ScheduleFallbackMessage, errs.PublicMessage(err))

	fc = newFakeCompleter().reply(GenerateSchedule, `{"error":"Not enough variety."}`)
	p = newPlanner(store, fc)
	_, err = p.AutoSchedule(ctx, pro, "Cold")
	require.Equal(t, "Not enough variety.", errs.PublicMessage(err))

	week, err := p.GetWeek(ctx, pro)
	require.NoError(t, err)
	require.Equal(t, "kept", *slot(week, models.Friday).OutfitID)
	outfits, err := store.Outfits().ListByUserID(ctx, pro.UserID)
	require.NoError(t, err)
	require.Empty(t, outfits)
}

func TestPlanner_AutoScheduleGates(t *testing.T) {
	store := repository.NewMemoryStore()
	seedWardrobe(t, store, pro.UserID, "A", "B")
	fc := newFakeCompleter()
	p := newPlanner(store, fc)

	_, err := p.AutoSchedule(context.Background(), starter, "")
	requireCode(t, err, "PLAN_REQUIRED")

	_, err = p.AutoSchedule(context.Background(), pro, "")
	requireCode(t, err, "WARDROBE_TOO_SMALL")
	require.Zero(t, fc.callCount())
}

func TestPlanner_AssignAndClearDay(t *testing.T) {
	store := repository.NewMemoryStore()
	p := newPlanner(store, newFakeCompleter())
	ctx := context.Background()

	o, err := newOutfitService(store).Save(ctx, starter, SaveOutfitRequest{Description: "Look"})
	require.NoError(t, err)

	week, err := p.AssignDay(ctx, starter, AssignDayRequest{Day: "Thursday", OutfitID: &o.ID, Note: "Dinner"})
	require.NoError(t, err)
	thu := slot(week, models.Thursday)
	require.Equal(t, o.ID, *thu.OutfitID)
	require.Equal(t, "Dinner", thu.Note)

	missing := "nope"
	_, err = p.AssignDay(ctx, starter, AssignDayRequest{Day: "Thu", OutfitID: &missing})
	require.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = p.AssignDay(ctx, starter, AssignDayRequest{Day: "Someday"})
	require.True(t, errors.Is(err, errs.ErrInvalid))

	week, err = p.ClearDay(ctx, starter, "thu")
	require.NoError(t, err)
	require.Nil(t, slot(week, models.Thursday).OutfitID)
	require.Empty(t, slot(week, models.Thursday).Note)
}
