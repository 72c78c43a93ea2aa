package dto

import (
	"time"

	"fittrack-backend/internal/goal/domain"
)

type GoalRequest struct {
	Name         string     `json:"name" binding:"required,max=255"`
	Description  string     `json:"description"`
	GoalType     string     `json:"goal_type" binding:"max=50"`
	Category     string     `json:"category" binding:"omitempty,oneof=workout nutrition weight other"`
	TargetWeight *float64   `json:"target_weight" binding:"omitempty,gt=0"`
	TargetDate   *time.Time `json:"target_date"`
	Progress     float64    `json:"progress" binding:"gte=0,lte=100"`
	Achieved     bool       `json:"achieved"`
}

func (r *GoalRequest) ToRecord() *domain.Goal {
	g := &domain.Goal{}
	r.ApplyTo(g)
	return g
}

func (r *GoalRequest) ApplyTo(g *domain.Goal) {
	g.Name = r.Name
	g.Description = r.Description
	g.GoalType = r.GoalType
	g.Category = r.Category
	g.TargetWeight = r.TargetWeight
	g.TargetDate = r.TargetDate
	g.Achieved = r.Achieved
	g.SetProgress(r.Progress)
}

type GoalPatch struct {
	Name         *string    `json:"name" binding:"omitempty,max=255"`
	Description  *string    `json:"description"`
	GoalType     *string    `json:"goal_type" binding:"omitempty,max=50"`
	Category     *string    `json:"category" binding:"omitempty,oneof=workout nutrition weight other"`
	TargetWeight *float64   `json:"target_weight" binding:"omitempty,gt=0"`
	TargetDate   *time.Time `json:"target_date"`
	Progress     *float64   `json:"progress" binding:"omitempty,gte=0,lte=100"`
	Achieved     *bool      `json:"achieved"`
}

func (p *GoalPatch) ApplyTo(g *domain.Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.GoalType != nil {
		g.GoalType = *p.GoalType
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.TargetWeight != nil {
		g.TargetWeight = p.TargetWeight
	}
	if p.TargetDate != nil {
		g.TargetDate = p.TargetDate
	}
	if p.Achieved != nil {
		g.Achieved = *p.Achieved
	}
	if p.Progress != nil {
		g.SetProgress(*p.Progress)
	}
}

// UpdateProgressRequest carries a pointer so that a missing value can be told
// apart from zero.
type UpdateProgressRequest struct {
	Progress *float64 `json:"progress"`
}
