package seed

import (
	"testing"
	"time"

	"quad/internal/models"
)

func TestBuildRequest_TimestampsAndShape(t *testing.T) {
	opts := SeedOptions{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	creator := &models.User{ID: 1}

	for i := 0; i < 50; i++ {
		req := f.BuildRequest(creator)

		if req.Title == "" || req.Description == "" {
			t.Fatalf("expected title and description, got %+v", req)
		}
		if !models.ValidUrgency(req.Urgency) {
			t.Fatalf("invalid urgency: %s", req.Urgency)
		}
		if req.IsRemote {
			if req.Location != models.RemoteLocation {
				t.Fatalf("remote request location should be %q, got %q", models.RemoteLocation, req.Location)
			}
		} else if req.City == "" || req.Location != req.City {
			t.Fatalf("in-person request needs a city location, got city=%q location=%q", req.City, req.Location)
		}

		// timestamp should be within MaxDays
		if time.Since(req.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
			t.Fatalf("created_at too old: %v", req.CreatedAt)
		}
	}
}

func TestBuildRequest_Overrides(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true})
	creator := &models.User{ID: 7}

	req := f.BuildRequest(creator, func(r *models.Request) {
		r.Urgency = models.UrgencyHigh
		r.Tags = []string{"moving"}
	})
	if req.CreatorID != 7 {
		t.Fatalf("creator id not carried: %d", req.CreatorID)
	}
	if req.Urgency != models.UrgencyHigh || len(req.Tags) != 1 {
		t.Fatalf("overrides not applied: %+v", req)
	}
}

func TestEngagementCounts(t *testing.T) {
	likes, offers := engagementCounts(20)
	if likes != 6 || offers != 3 {
		t.Fatalf("unexpected counts for pool=20: likes=%d offers=%d", likes, offers)
	}

	likes, offers = engagementCounts(0)
	if likes != 0 || offers != 0 {
		t.Fatalf("empty pool should seed nothing: likes=%d offers=%d", likes, offers)
	}
}
