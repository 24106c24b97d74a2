package models

import (
	"time"
)

type ProjectStage string

const (
	StageIdeation   ProjectStage = "ideation"
	StageValidation ProjectStage = "validation"
	StageMVP        ProjectStage = "mvp"
	StageOperation  ProjectStage = "operation"
	StageTraction   ProjectStage = "traction"
)

var stageLabels = map[ProjectStage]string{
	StageIdeation:   "Ideação",
	StageValidation: "Validação",
	StageMVP:        "MVP",
	StageOperation:  "Operação",
	StageTraction:   "Tração",
}

func (s ProjectStage) String() string {
	return string(s)
}

// Label retorna o nome do estágio exibido ao usuário.
func (s ProjectStage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

func IsValidStage(stage string) bool {
	switch ProjectStage(stage) {
	case StageIdeation, StageValidation, StageMVP, StageOperation, StageTraction:
		return true
	default:
		return false
	}
}

// StageLabels lists the user-facing labels in presentation order.
func StageLabels() []string {
	return []string{
		stageLabels[StageIdeation],
		stageLabels[StageValidation],
		stageLabels[StageMVP],
		stageLabels[StageOperation],
		stageLabels[StageTraction],
	}
}

// MaxPitchVideoSize limita o vídeo de pitch a 50 MiB.
const MaxPitchVideoSize = 50 << 20

// ProjectSubmission is the client-held payload built by the form before it is
// sent to the backend. After a successful create the client only ever works
// with the server-owned SubmittedProject; it never re-derives data from here.
type ProjectSubmission struct {
	Name                   string       `json:"projectName"`
	Stage                  ProjectStage `json:"stage"`
	Description            string       `json:"description"`
	InnovationDifferential string       `json:"innovationDifferential"`
	BusinessModel          string       `json:"businessModel"`
	Technologies           []string     `json:"technologies"`
	PitchLink              string       `json:"pitchLink,omitempty"`
	PitchVideo             *Attachment  `json:"-"`
	Leader                 TeamMember   `json:"leader"`
	Members                []TeamMember `json:"members"`
}

// TeamSize conta o líder mais os integrantes.
func (s *ProjectSubmission) TeamSize() int {
	return 1 + len(s.Members)
}

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

func (st SubmissionStatus) String() string {
	return string(st)
}

// SubmittedProject is the read-only, server-confirmed view of a submission.
type SubmittedProject struct {
	ID                 string           `json:"id"`
	EditalID           string           `json:"editalId"`
	Name               string           `json:"projectName"`
	Stage              ProjectStage     `json:"stage"`
	Description        string           `json:"description"`
	Status             SubmissionStatus `json:"status"`
	AverageScore       *float64         `json:"averageScore,omitempty"`
	FinalJustification string           `json:"finalJustification,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}
