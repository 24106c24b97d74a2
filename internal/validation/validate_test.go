package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

func photoPNG() *models.Attachment {
	return &models.Attachment{
		FileName:    "foto.png",
		ContentType: "image/png",
		Size:        1024,
		Data:        []byte("png"),
	}
}

func member(name, cpf string) models.TeamMember {
	return models.TeamMember{Name: name, CPF: cpf, Photo: photoPNG()}
}

// validSubmission is the minimal payload that must pass every rule: leader plus
// one member, all text fields filled, pitch as a well-formed link.
func validSubmission() *models.ProjectSubmission {
	return &models.ProjectSubmission{
		Name:                   "Hortas Urbanas do Agreste",
		Stage:                  models.StageIdeation,
		Description:            "Plataforma de hortas comunitárias",
		InnovationDifferential: "Sensores de irrigação de baixo custo",
		BusinessModel:          "Assinatura mensal",
		Technologies:           []string{"IoT", "Solar"},
		PitchLink:              "https://youtu.be/abc123",
		Leader:                 member("Maria Souza", "123.456.789-09"),
		Members:                []models.TeamMember{member("João Lima", "98765432100")},
	}
}

func TestValidate_MinimalValidPayload(t *testing.T) {
	result := Validate(validSubmission())

	require.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_MissingSingleField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.ProjectSubmission)
		wantMsg string
	}{
		{
			name:    "project name",
			mutate:  func(s *models.ProjectSubmission) { s.Name = "  " },
			wantMsg: "O nome do projeto é obrigatório",
		},
		{
			name:    "stage missing",
			mutate:  func(s *models.ProjectSubmission) { s.Stage = "" },
			wantMsg: "Selecione o estágio do projeto",
		},
		{
			name:    "description",
			mutate:  func(s *models.ProjectSubmission) { s.Description = "" },
			wantMsg: "A descrição do projeto é obrigatória",
		},
		{
			name:    "innovation differential",
			mutate:  func(s *models.ProjectSubmission) { s.InnovationDifferential = "" },
			wantMsg: "O diferencial de inovação é obrigatório",
		},
		{
			name:    "business model",
			mutate:  func(s *models.ProjectSubmission) { s.BusinessModel = "" },
			wantMsg: "O modelo de negócio é obrigatório",
		},
		{
			name:    "leader name",
			mutate:  func(s *models.ProjectSubmission) { s.Leader.Name = "" },
			wantMsg: "O nome do líder é obrigatório",
		},
		{
			name:    "leader photo",
			mutate:  func(s *models.ProjectSubmission) { s.Leader.Photo = nil },
			wantMsg: "A foto do líder é obrigatória",
		},
		{
			name:    "member photo",
			mutate:  func(s *models.ProjectSubmission) { s.Members[0].Photo = nil },
			wantMsg: "A foto do integrante 1 é obrigatória",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(s)

			result := Validate(s)

			require.False(t, result.Valid)
			require.Len(t, result.Errors, 1, "only the mutated field should fail")
			assert.Equal(t, tt.wantMsg, result.Errors[0])
		})
	}
}

func TestValidate_InvalidStageListsAcceptedValues(t *testing.T) {
	s := validSubmission()
	s.Stage = "escala"

	result := Validate(s)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	for _, label := range []string{"Ideação", "Validação", "MVP", "Operação", "Tração"} {
		assert.Contains(t, result.Errors[0], label)
	}
}

func TestValidate_PitchRules(t *testing.T) {
	t.Run("neither link nor video", func(t *testing.T) {
		s := validSubmission()
		s.PitchLink = ""
		s.PitchVideo = nil

		result := Validate(s)

		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Informe o link do pitch ou envie o vídeo de apresentação", result.Errors[0])
	})

	t.Run("both link and video is accepted", func(t *testing.T) {
		s := validSubmission()
		s.PitchVideo = &models.Attachment{
			FileName:    "pitch.mp4",
			ContentType: "video/mp4",
			Size:        10 << 20,
		}

		result := Validate(s)

		assert.True(t, result.Valid)
	})

	t.Run("malformed link", func(t *testing.T) {
		s := validSubmission()
		s.PitchLink = "youtu.be sem esquema"

		result := Validate(s)

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "O link do pitch não é uma URL válida")
	})

	t.Run("wrong media type and oversize fire independently", func(t *testing.T) {
		s := validSubmission()
		s.PitchLink = ""
		s.PitchVideo = &models.Attachment{
			FileName:    "pitch.pdf",
			ContentType: "application/pdf",
			Size:        models.MaxPitchVideoSize + 1,
		}

		result := Validate(s)

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "O vídeo de pitch deve ser um arquivo de vídeo")
		assert.Contains(t, result.Errors, "O vídeo de pitch deve ter no máximo 50 MB")
	})

	t.Run("video at exactly 50 MiB passes", func(t *testing.T) {
		s := validSubmission()
		s.PitchLink = ""
		s.PitchVideo = &models.Attachment{
			FileName:    "pitch.mp4",
			ContentType: "video/mp4",
			Size:        models.MaxPitchVideoSize,
		}

		result := Validate(s)

		assert.True(t, result.Valid)
	})
}

func TestValidate_TeamBounds(t *testing.T) {
	t.Run("no additional members", func(t *testing.T) {
		s := validSubmission()
		s.Members = nil

		result := Validate(s)

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "O projeto deve ter pelo menos 1 integrante além do líder")
	})

	t.Run("five additional members", func(t *testing.T) {
		s := validSubmission()
		s.Members = []models.TeamMember{
			member("A", "11111111111"),
			member("B", "22222222222"),
			member("C", "33333333333"),
			member("D", "44444444444"),
			member("E", "55555555555"),
		}

		result := Validate(s)

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "O projeto pode ter no máximo 4 integrantes além do líder")
	})

	t.Run("four additional members pass", func(t *testing.T) {
		s := validSubmission()
		s.Members = []models.TeamMember{
			member("A", "11111111111"),
			member("B", "22222222222"),
			member("C", "33333333333"),
			member("D", "44444444444"),
		}

		result := Validate(s)

		assert.True(t, result.Valid)
	})
}

func TestValidate_CPFNormalization(t *testing.T) {
	tests := []struct {
		cpf  string
		want bool
	}{
		{"123.456.789-09", true},
		{"12345678909", true},
		{"123", false},
		{"123.456.789-091", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.cpf, func(t *testing.T) {
			s := validSubmission()
			s.Leader.CPF = tt.cpf

			result := Validate(s)

			if tt.want {
				assert.NotContains(t, result.Errors, "O CPF do líder deve conter 11 dígitos")
			} else {
				assert.Contains(t, result.Errors, "O CPF do líder deve conter 11 dígitos")
			}
		})
	}
}

func TestValidate_MemberErrorsEmbedIndex(t *testing.T) {
	s := validSubmission()
	s.Members = append(s.Members, models.TeamMember{Name: "", CPF: "12"})

	result := Validate(s)

	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "O nome do integrante 2 é obrigatório")
	assert.Contains(t, result.Errors, "O CPF do integrante 2 deve conter 11 dígitos")
	assert.Contains(t, result.Errors, "A foto do integrante 2 é obrigatória")
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	s := &models.ProjectSubmission{}

	result := Validate(s)

	require.False(t, result.Valid)
	// Nome, estágio, descrição, diferencial, modelo, pitch, líder (nome,
	// CPF, foto) e mínimo de integrantes: nada é curto-circuitado.
	assert.GreaterOrEqual(t, len(result.Errors), 10)
}

func TestValidate_Idempotent(t *testing.T) {
	s := validSubmission()
	s.Name = ""
	s.Members[0].CPF = "9"

	first := Validate(s)
	second := Validate(s)

	assert.Equal(t, first, second)
}

func TestValidate_NonImagePhoto(t *testing.T) {
	s := validSubmission()
	s.Leader.Photo = &models.Attachment{
		FileName:    "doc.pdf",
		ContentType: "application/pdf",
		Size:        100,
	}

	result := Validate(s)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "A foto do líder"))
}
