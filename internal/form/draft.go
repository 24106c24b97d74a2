package form

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

// MaxTeamSize limita o time a líder + 4 integrantes.
const MaxTeamSize = 5

var (
	// ErrLeaderRemoval: o índice 0 é o líder e não pode ser removido.
	ErrLeaderRemoval = errors.New("leader cannot be removed")
	ErrNoSuchMember  = errors.New("no such member")
	ErrUnknownField  = errors.New("unknown field")
)

// Draft é o estado mutável do formulário de submissão, anterior à validação.
// Vive apenas em memória: um reinício perde o rascunho, comportamento aceito —
// só a submissão já aceita é protegida pelo marcador pendente durável.
//
// Nos métodos indexados, o índice 0 é o líder e 1..n são os integrantes.
type Draft struct {
	mu sync.Mutex

	editalID         string
	submission       models.ProjectSubmission
	previews         *PreviewStore
	photoTokens      []string // alinhado aos índices: 0 = líder
	generalError     string
	validationErrors []string
}

func NewDraft(editalID string, previews *PreviewStore) *Draft {
	return &Draft{
		editalID:    editalID,
		previews:    previews,
		photoTokens: make([]string, 1),
	}
}

func (d *Draft) EditalID() string {
	return d.editalID
}

// SetField substitui um campo escalar e limpa o aviso geral de erro, já que o
// usuário começou a corrigir o formulário.
func (d *Draft) SetField(name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch name {
	case "projectName":
		d.submission.Name = value
	case "stage":
		d.submission.Stage = models.ProjectStage(value)
	case "description":
		d.submission.Description = value
	case "innovationDifferential":
		d.submission.InnovationDifferential = value
	case "businessModel":
		d.submission.BusinessModel = value
	case "pitchLink":
		d.submission.PitchLink = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	d.generalError = ""
	return nil
}

func (d *Draft) SetTechnologies(technologies []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cleaned := make([]string, 0, len(technologies))
	for _, tech := range technologies {
		if t := strings.TrimSpace(tech); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	d.submission.Technologies = cleaned
}

func (d *Draft) SetPitchVideo(att *models.Attachment) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.submission.PitchVideo = att
}

// AddMember acrescenta um integrante em branco. Quando o time já está no
// limite a chamada é um no-op silencioso, espelhando o formulário original,
// que apenas esconde o botão.
func (d *Draft) AddMember() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.teamSize() >= MaxTeamSize {
		return false
	}

	d.submission.Members = append(d.submission.Members, models.TeamMember{})
	d.photoTokens = append(d.photoTokens, "")
	return true
}

// RemoveMember descarta o integrante e libera o preview da foto dele.
func (d *Draft) RemoveMember(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index == 0 {
		return ErrLeaderRemoval
	}
	if index < 0 || index >= d.teamSize() {
		return ErrNoSuchMember
	}

	d.previews.Release(d.photoTokens[index])

	i := index - 1
	d.submission.Members = append(d.submission.Members[:i], d.submission.Members[i+1:]...)
	d.photoTokens = append(d.photoTokens[:index], d.photoTokens[index+1:]...)
	return nil
}

func (d *Draft) SetMemberField(index int, field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	member, err := d.memberAt(index)
	if err != nil {
		return err
	}

	switch field {
	case "name":
		member.Name = value
	case "cpf":
		member.CPF = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return nil
}

// SetMemberPhoto troca a foto do integrante e devolve o token do novo preview.
// O preview anterior, se houver, é liberado na hora.
func (d *Draft) SetMemberPhoto(index int, att *models.Attachment) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	member, err := d.memberAt(index)
	if err != nil {
		return "", err
	}

	token, err := d.previews.Create(att)
	if err != nil {
		return "", err
	}

	d.previews.Release(d.photoTokens[index])
	d.photoTokens[index] = token
	member.Photo = att

	return token, nil
}

// Submission devolve uma cópia do payload para validação e envio.
func (d *Draft) Submission() *models.ProjectSubmission {
	d.mu.Lock()
	defer d.mu.Unlock()

	copied := d.submission
	copied.Technologies = append([]string(nil), d.submission.Technologies...)
	copied.Members = append([]models.TeamMember(nil), d.submission.Members...)
	return &copied
}

// SetValidationErrors guarda a última lista de erros de validação para o
// formulário reabrir já com o aviso preenchido.
func (d *Draft) SetValidationErrors(errs []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.validationErrors = append([]string(nil), errs...)
}

func (d *Draft) ValidationErrors() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.validationErrors...)
}

func (d *Draft) SetGeneralError(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generalError = message
}

func (d *Draft) GeneralError() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.generalError
}

// Discard libera todos os previews do rascunho.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, token := range d.photoTokens {
		d.previews.Release(token)
	}
	d.photoTokens = make([]string, 1)
	d.submission = models.ProjectSubmission{}
}

func (d *Draft) teamSize() int {
	return 1 + len(d.submission.Members)
}

func (d *Draft) memberAt(index int) (*models.TeamMember, error) {
	if index == 0 {
		return &d.submission.Leader, nil
	}
	if index < 0 || index >= d.teamSize() {
		return nil, ErrNoSuchMember
	}
	return &d.submission.Members[index-1], nil
}
