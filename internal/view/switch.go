package view

import (
	"github.com/trampolim2024/trampolim-portal/internal/models"
	"github.com/trampolim2024/trampolim-portal/internal/service"
)

type Branch string

const (
	BranchLoading             Branch = "loading"
	BranchNoActiveEdital      Branch = "no_active_edital"
	BranchForm                Branch = "form"
	BranchPendingConfirmation Branch = "pending_confirmation"
	BranchSubmitted           Branch = "submitted"
	BranchError               Branch = "error"
)

// ViewModel é o que a interface renderiza: um único ramo por vez.
type ViewModel struct {
	Branch     Branch                   `json:"branch"`
	Edital     *models.Edital           `json:"edital,omitempty"`
	Project    *models.SubmittedProject `json:"project,omitempty"`
	FormErrors []string                 `json:"formErrors,omitempty"`
	Message    string                   `json:"message,omitempty"`
}

// Render decide o ramo exibido a partir da resolução de status, da última
// lista de erros de validação e do marcador pendente. É uma função pura sobre
// os três argumentos: não guarda estado nem dispara efeitos, então a interface
// nunca mostra combinações impossíveis.
func Render(res service.Resolution, formErrors []string, pending bool) ViewModel {
	vm := ViewModel{Edital: res.Edital}

	switch res.State {
	case service.StateLoading:
		vm.Branch = BranchLoading

	case service.StateNoActiveEdital:
		vm.Branch = BranchNoActiveEdital

	case service.StateSubmitted:
		vm.Branch = BranchSubmitted
		vm.Project = res.Project

	case service.StateError:
		vm.Branch = BranchError
		vm.Message = res.Message

	case service.StateNotSubmitted:
		if pending {
			// Criação aceita mas ainda não visível: o formulário não
			// volta, senão o usuário reenviaria o projeto.
			vm.Branch = BranchPendingConfirmation
		} else {
			vm.Branch = BranchForm
			vm.FormErrors = formErrors
		}

	default:
		vm.Branch = BranchError
		vm.Message = "Estado desconhecido"
	}

	return vm
}
