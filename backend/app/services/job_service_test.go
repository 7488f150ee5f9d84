package services

import (
	"testing"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/models"
)

func TestCreateJobQueued(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	j, err := env.jobSvc.Create(d.ID, "APPLY_POLICY", []byte(`{"refresh":true}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if j.Status != models.JobStatusQueued || j.Attempts != 0 {
		t.Fatalf("new job = %+v", j)
	}
}

func TestCreateJobRejectsUnknownTypeAndShape(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	cases := []struct {
		name    string
		typ     string
		payload string
	}{
		{"unknown type", "REBOOT_MOON", `{}`},
		{"wrong shape", "ALLOW_APP", `{"nope":1}`},
		{"malformed json", "BLOCK_APP", `{"app_id":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.jobSvc.Create(d.ID, tc.typ, []byte(tc.payload)); !apperr.IsKind(err, apperr.Validation) {
				t.Fatalf("got %v, want validation", err)
			}
		})
	}

	if _, err := env.jobSvc.Create("no-such-device", "APPLY_POLICY", nil); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("unknown device: got %v, want not found", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	var ids []string
	for i := 0; i < 3; i++ {
		j, err := env.jobSvc.Create(d.ID, "APPLY_POLICY", nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, j.ID)
	}
	jobs, err := env.jobSvc.List(d.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("len = %d", len(jobs))
	}
	if jobs[0].ID != ids[2] || jobs[2].ID != ids[0] {
		t.Fatalf("not newest-first: %v vs created %v", []string{jobs[0].ID, jobs[1].ID, jobs[2].ID}, ids)
	}
}

func TestPollClaimsFIFO(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	first, _ := env.jobSvc.Create(d.ID, "ALLOW_APP", []byte(`{"app_id":"a"}`))
	second, _ := env.jobSvc.Create(d.ID, "BLOCK_APP", []byte(`{"app_id":"b"}`))

	claimed, err := env.jobSvc.PollForAgent(d.ID, 10)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(claimed) != 2 || claimed[0].ID != first.ID || claimed[1].ID != second.ID {
		t.Fatalf("claim order wrong: %+v", claimed)
	}
	for _, j := range claimed {
		if j.Status != models.JobStatusRunning {
			t.Fatalf("claimed job not running: %+v", j)
		}
	}

	again, err := env.jobSvc.PollForAgent(d.ID, 10)
	if err != nil {
		t.Fatalf("re-poll: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("re-poll claimed %d jobs, want 0", len(again))
	}
}

func TestReportOutcomeIdempotent(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")
	j, _ := env.jobSvc.Create(d.ID, "APPLY_POLICY", []byte(`{"refresh":true}`))

	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusSuccess, "done"); err != nil {
		t.Fatalf("report: %v", err)
	}
	after, _ := env.jobSvc.Lookup(j.ID)
	if after.Status != models.JobStatusSuccess || after.Attempts != 0 {
		t.Fatalf("after report: %+v", after)
	}

	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusSuccess, "done"); err != nil {
		t.Fatalf("duplicate report must be a no-op: %v", err)
	}
	again, _ := env.jobSvc.Lookup(j.ID)
	if again.Status != after.Status || again.Attempts != after.Attempts {
		t.Fatalf("duplicate report changed state: %+v -> %+v", after, again)
	}
}

func TestReportFailureBumpsAttemptsOnce(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")
	j, _ := env.jobSvc.Create(d.ID, "INSTALL_APP", []byte(`{"app_id":"x"}`))

	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("report: %v", err)
	}
	after, _ := env.jobSvc.Lookup(j.ID)
	if after.Status != models.JobStatusFailed || after.Attempts != 1 {
		t.Fatalf("after failure: %+v", after)
	}

	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("duplicate failure: %v", err)
	}
	again, _ := env.jobSvc.Lookup(j.ID)
	if again.Attempts != 1 {
		t.Fatalf("duplicate failure double-counted attempts: %d", again.Attempts)
	}
}

func TestReportOutcomeValidation(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")
	j, _ := env.jobSvc.Create(d.ID, "APPLY_POLICY", nil)

	if err := env.jobSvc.ReportOutcome(j.ID, "running", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("agent may only report terminal statuses, got %v", err)
	}
	if err := env.jobSvc.ReportOutcome("missing", models.JobStatusSuccess, ""); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("unknown job: got %v, want not found", err)
	}

	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusSuccess, ""); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := env.jobSvc.ReportOutcome(j.ID, models.JobStatusFailed, ""); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("terminal states never move: got %v, want conflict", err)
	}
}
