package menu

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/router"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestions() []bank.Question {
	return []bank.Question{
		{ID: "4.1", Title: "Expected Value of a Die"},
		{ID: "4.2", Title: "Two Children"},
		{ID: "4.3", Title: "Coupon Collector"},
	}
}

func TestMenuSelectPopsWithIndex(t *testing.T) {
	s := New(testQuestions(), nil, 0)

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	if s.Selected() != 2 {
		t.Fatalf("selected = %d, want 2", s.Selected())
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	pop, ok := cmd().(router.PopScreenMsg)
	if !ok {
		t.Fatalf("expected PopScreenMsg, got %T", cmd())
	}
	sel, ok := pop.Result.(SelectedMsg)
	if !ok || sel.Index != 2 {
		t.Errorf("result = %#v, want SelectedMsg{2}", pop.Result)
	}
}

func TestMenuStartsAtCurrent(t *testing.T) {
	s := New(testQuestions(), nil, 1)
	if s.Selected() != 1 {
		t.Errorf("selected = %d, want 1", s.Selected())
	}
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyUp))
	if s.Selected() != 0 {
		t.Errorf("selected = %d, want 0 (clamped)", s.Selected())
	}
}

func TestMenuMarksCompleted(t *testing.T) {
	done := map[int]bool{1: true}
	s := New(testQuestions(), func(i int) bool { return done[i] }, 0)

	if s.progress.Done != 1 || s.progress.Total != 3 {
		t.Errorf("progress = %d/%d, want 1/3", s.progress.Done, s.progress.Total)
	}
	view := s.View(80, 20)
	if !strings.Contains(view, "✓") {
		t.Error("expected a completed mark in the view")
	}
	if !strings.Contains(view, "Two Children") {
		t.Error("expected question titles in the view")
	}
}

func TestMenuEmpty(t *testing.T) {
	s := New(nil, nil, 0)
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("empty menu should not produce a command")
	}
	if !strings.Contains(s.View(80, 20), "No questions") {
		t.Error("expected empty message")
	}
}
