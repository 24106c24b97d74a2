package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service"
)

func TestRender_Branches(t *testing.T) {
	project := &models.SubmittedProject{ID: "proj-1"}
	edital := &models.Edital{ID: "ed-1"}

	tests := []struct {
		name       string
		resolution service.Resolution
		formErrors []string
		pending    bool
		want       ViewModel
	}{
		{
			name:       "loading",
			resolution: service.Resolution{State: service.StateLoading},
			want:       ViewModel{Branch: BranchLoading},
		},
		{
			name:       "no active edital",
			resolution: service.Resolution{State: service.StateNoActiveEdital},
			want:       ViewModel{Branch: BranchNoActiveEdital},
		},
		{
			name:       "not submitted renders the form",
			resolution: service.Resolution{State: service.StateNotSubmitted, Edital: edital},
			want:       ViewModel{Branch: BranchForm, Edital: edital},
		},
		{
			name:       "not submitted with prior validation errors",
			resolution: service.Resolution{State: service.StateNotSubmitted},
			formErrors: []string{"O nome do projeto é obrigatório"},
			want: ViewModel{
				Branch:     BranchForm,
				FormErrors: []string{"O nome do projeto é obrigatório"},
			},
		},
		{
			name:       "pending flag suppresses the form",
			resolution: service.Resolution{State: service.StateNotSubmitted},
			formErrors: []string{"erro antigo"},
			pending:    true,
			want:       ViewModel{Branch: BranchPendingConfirmation},
		},
		{
			name:       "submitted",
			resolution: service.Resolution{State: service.StateSubmitted, Project: project},
			want:       ViewModel{Branch: BranchSubmitted, Project: project},
		},
		{
			name:       "error",
			resolution: service.Resolution{State: service.StateError, Message: "falhou"},
			want:       ViewModel{Branch: BranchError, Message: "falhou"},
		},
		{
			name:       "pending flag does not override submitted",
			resolution: service.Resolution{State: service.StateSubmitted, Project: project},
			pending:    true,
			want:       ViewModel{Branch: BranchSubmitted, Project: project},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.resolution, tt.formErrors, tt.pending)
			assert.Equal(t, tt.want, got)
		})
	}
}
