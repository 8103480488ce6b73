package repository

import (
	"context"
	"testing"

	"resume-renderer/internal/domain"

	"github.com/google/uuid"
)

func TestNilPoolIsNoop(t *testing.T) {
	repo := NewRenderLogRepo(nil)
	if repo.Enabled() {
		t.Fatal("repo without pool reported enabled")
	}
	j := &domain.RenderJob{TemplateID: "modern-minimal", Status: domain.RenderStatusSucceeded}
	if err := repo.Save(context.Background(), j); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if j.ID != uuid.Nil {
		t.Fatal("no-op save should leave the job untouched")
	}
	jobs, err := repo.Recent(context.Background(), 10)
	if err != nil || jobs != nil {
		t.Fatalf("Recent = %v, %v", jobs, err)
	}

	var nilRepo *RenderLogRepo
	if nilRepo.Enabled() {
		t.Fatal("nil repo reported enabled")
	}
}
