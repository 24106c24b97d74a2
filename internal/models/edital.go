package models

import (
	"time"
)

type Edital struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// IsActiveAt usa intervalo fechado: o edital aceita submissões
// inclusive no instante de abertura e no de encerramento.
func (e *Edital) IsActiveAt(t time.Time) bool {
	return !t.Before(e.StartDate) && !t.After(e.EndDate)
}

// ActiveEdital returns the first edital whose submission window contains t.
func ActiveEdital(editals []Edital, t time.Time) *Edital {
	for i := range editals {
		if editals[i].IsActiveAt(t) {
			return &editals[i]
		}
	}
	return nil
}
