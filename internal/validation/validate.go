package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

// MaxAdditionalMembers limita o time a líder + 4 integrantes.
const MaxAdditionalMembers = 4

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a submission against the edital rules and collects every
// violation instead of stopping at the first one, so the user can fix the whole
// form in one pass. It is a pure function: no I/O, no mutation of the payload.
func Validate(s *models.ProjectSubmission) Result {
	var errs []string

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "O nome do projeto é obrigatório")
	}

	if s.Stage == "" {
		errs = append(errs, "Selecione o estágio do projeto")
	} else if !models.IsValidStage(string(s.Stage)) {
		errs = append(errs, fmt.Sprintf(
			"Estágio inválido. Valores aceitos: %s",
			strings.Join(models.StageLabels(), ", "),
		))
	}

	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, "A descrição do projeto é obrigatória")
	}
	if strings.TrimSpace(s.InnovationDifferential) == "" {
		errs = append(errs, "O diferencial de inovação é obrigatório")
	}
	if strings.TrimSpace(s.BusinessModel) == "" {
		errs = append(errs, "O modelo de negócio é obrigatório")
	}

	errs = append(errs, validatePitch(s)...)
	errs = append(errs, validateLeader(&s.Leader)...)
	errs = append(errs, validateMembers(s.Members)...)

	return Result{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validatePitch(s *models.ProjectSubmission) []string {
	var errs []string

	if s.PitchLink == "" && s.PitchVideo == nil {
		return []string{"Informe o link do pitch ou envie o vídeo de apresentação"}
	}

	if s.PitchLink != "" {
		if !isValidURL(s.PitchLink) {
			errs = append(errs, "O link do pitch não é uma URL válida")
		}
	}

	if s.PitchVideo != nil {
		// As duas checagens são independentes: tipo errado e tamanho
		// excedido podem aparecer juntos.
		if !s.PitchVideo.IsVideo() {
			errs = append(errs, "O vídeo de pitch deve ser um arquivo de vídeo")
		}
		if s.PitchVideo.Size > models.MaxPitchVideoSize {
			errs = append(errs, "O vídeo de pitch deve ter no máximo 50 MB")
		}
	}

	return errs
}

func validateLeader(leader *models.TeamMember) []string {
	var errs []string

	if strings.TrimSpace(leader.Name) == "" {
		errs = append(errs, "O nome do líder é obrigatório")
	}
	if !isValidCPF(leader.CPF) {
		errs = append(errs, "O CPF do líder deve conter 11 dígitos")
	}
	errs = append(errs, validatePhoto(leader.Photo, "do líder")...)

	return errs
}

func validateMembers(members []models.TeamMember) []string {
	var errs []string

	if len(members) == 0 {
		errs = append(errs, "O projeto deve ter pelo menos 1 integrante além do líder")
	}
	if len(members) > MaxAdditionalMembers {
		errs = append(errs, "O projeto pode ter no máximo 4 integrantes além do líder")
	}

	for i := range members {
		member := &members[i]
		who := fmt.Sprintf("do integrante %d", i+1)

		if strings.TrimSpace(member.Name) == "" {
			errs = append(errs, fmt.Sprintf("O nome %s é obrigatório", who))
		}
		if !isValidCPF(member.CPF) {
			errs = append(errs, fmt.Sprintf("O CPF %s deve conter 11 dígitos", who))
		}
		errs = append(errs, validatePhoto(member.Photo, who)...)
	}

	return errs
}

func validatePhoto(photo *models.Attachment, who string) []string {
	if photo == nil {
		return []string{fmt.Sprintf("A foto %s é obrigatória", who)}
	}
	if !photo.IsImage() {
		return []string{fmt.Sprintf("A foto %s deve ser uma imagem", who)}
	}
	return nil
}

// isValidCPF verifica apenas o formato: 11 dígitos após remover a pontuação.
// Os dígitos verificadores são checados pelo backend.
func isValidCPF(cpf string) bool {
	return len(models.NormalizeCPF(cpf)) == 11
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
