package models

import (
	"strings"
)

// Attachment carrega um arquivo recebido do formulário em memória.
type Attachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

func (a *Attachment) IsVideo() bool {
	return strings.HasPrefix(a.ContentType, "video/")
}

type TeamMember struct {
	Name  string      `json:"name"`
	CPF   string      `json:"cpf"`
	Photo *Attachment `json:"-"`
}

// NormalizeCPF remove a pontuação do CPF, mantendo apenas dígitos.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
