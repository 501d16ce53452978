package service_test

import (
	"errors"
	"testing"

	"github.com/arthurssouza42/fit/internal/model"
	"github.com/arthurssouza42/fit/internal/service"
)

func TestActivityCRUD(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	run, err := service.AddActivity(sqldb, service.ActivityInput{Date: "2024-05-01", Description: "  Corrida  ", DurationMin: 30})
	if err != nil {
		t.Fatalf("add activity: %v", err)
	}
	if run.ID <= 0 || run.Description != "Corrida" {
		t.Fatalf("unexpected activity %+v", run)
	}
	if _, err := service.AddActivity(sqldb, service.ActivityInput{Date: "2024-05-01", Description: "Musculação", DurationMin: 45}); err != nil {
		t.Fatalf("add activity: %v", err)
	}
	if _, err := service.AddActivity(sqldb, service.ActivityInput{Date: "2024-05-02", Description: "Natação", DurationMin: 40}); err != nil {
		t.Fatalf("add activity: %v", err)
	}

	day, err := service.ListActivities(sqldb, "2024-05-01")
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(day) != 2 || day[0].ID != run.ID {
		t.Fatalf("unexpected day activities %+v", day)
	}
	if service.TotalMinutes(day) != 75 {
		t.Fatalf("expected 75 minutes, got %d", service.TotalMinutes(day))
	}
	all, err := service.ListActivities(sqldb, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 || all[2].Date != model.Date("2024-05-02") {
		t.Fatalf("unexpected activities %+v", all)
	}

	if err := service.DeleteActivity(sqldb, run.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}
	var nf *service.NotFoundError
	if err := service.DeleteActivity(sqldb, run.ID); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddActivityValidation(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	cases := []service.ActivityInput{
		{Date: "2024-05-01", Description: " ", DurationMin: 10},
		{Date: "2024-05-01", Description: "Corrida", DurationMin: 0},
		{Date: "2024/05/01", Description: "Corrida", DurationMin: 10},
	}
	for _, in := range cases {
		_, err := service.AddActivity(sqldb, in)
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}
