package form

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

func newTestDraft(t *testing.T) *Draft {
	t.Helper()

	previews, err := NewPreviewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(previews.Close)

	return NewDraft("ed-1", previews)
}

func attachment(name string) *models.Attachment {
	return &models.Attachment{
		FileName:    name,
		ContentType: "image/png",
		Size:        3,
		Data:        []byte("png"),
	}
}

func TestDraft_SetField(t *testing.T) {
	draft := newTestDraft(t)

	require.NoError(t, draft.SetField("projectName", "Projeto X"))
	require.NoError(t, draft.SetField("stage", "mvp"))
	require.NoError(t, draft.SetField("pitchLink", "https://youtu.be/abc"))

	submission := draft.Submission()
	assert.Equal(t, "Projeto X", submission.Name)
	assert.Equal(t, models.StageMVP, submission.Stage)
	assert.Equal(t, "https://youtu.be/abc", submission.PitchLink)

	err := draft.SetField("unknown", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDraft_SetFieldClearsGeneralError(t *testing.T) {
	draft := newTestDraft(t)
	draft.SetGeneralError("Não foi possível enviar o projeto")

	require.NoError(t, draft.SetField("description", "nova descrição"))

	assert.Empty(t, draft.GeneralError())
}

func TestDraft_AddMemberCapsSilently(t *testing.T) {
	draft := newTestDraft(t)

	for i := 0; i < 4; i++ {
		assert.True(t, draft.AddMember())
	}

	// Líder + 4 integrantes: o quinto adicional é um no-op, sem erro
	assert.False(t, draft.AddMember())
	assert.Len(t, draft.Submission().Members, 4)
}

func TestDraft_RemoveMember(t *testing.T) {
	draft := newTestDraft(t)
	draft.AddMember()
	draft.AddMember()
	require.NoError(t, draft.SetMemberField(1, "name", "Primeiro"))
	require.NoError(t, draft.SetMemberField(2, "name", "Segundo"))

	require.NoError(t, draft.RemoveMember(1))

	members := draft.Submission().Members
	require.Len(t, members, 1)
	assert.Equal(t, "Segundo", members[0].Name)

	assert.ErrorIs(t, draft.RemoveMember(0), ErrLeaderRemoval)
	assert.ErrorIs(t, draft.RemoveMember(7), ErrNoSuchMember)
}

func TestDraft_MemberFieldIndexing(t *testing.T) {
	draft := newTestDraft(t)
	draft.AddMember()

	// Índice 0 é o líder
	require.NoError(t, draft.SetMemberField(0, "name", "Maria"))
	require.NoError(t, draft.SetMemberField(0, "cpf", "123.456.789-09"))
	require.NoError(t, draft.SetMemberField(1, "name", "João"))

	submission := draft.Submission()
	assert.Equal(t, "Maria", submission.Leader.Name)
	assert.Equal(t, "João", submission.Members[0].Name)

	assert.ErrorIs(t, draft.SetMemberField(1, "email", "x"), ErrUnknownField)
	assert.ErrorIs(t, draft.SetMemberField(9, "name", "x"), ErrNoSuchMember)
}

func TestDraft_PhotoPreviewLifecycle(t *testing.T) {
	previews, err := NewPreviewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(previews.Close)

	draft := NewDraft("ed-1", previews)
	draft.AddMember()

	first, err := draft.SetMemberPhoto(1, attachment("a.png"))
	require.NoError(t, err)

	firstPath, ok := previews.Path(first)
	require.True(t, ok)
	_, err = os.Stat(firstPath)
	require.NoError(t, err)

	// Trocar a foto libera o preview anterior
	second, err := draft.SetMemberPhoto(1, attachment("b.png"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, ok = previews.Path(first)
	assert.False(t, ok)
	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err))

	// Remover o integrante libera o preview atual
	secondPath, _ := previews.Path(second)
	require.NoError(t, draft.RemoveMember(1))

	_, ok = previews.Path(second)
	assert.False(t, ok)
	_, err = os.Stat(secondPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDraft_SubmissionIsACopy(t *testing.T) {
	draft := newTestDraft(t)
	draft.AddMember()
	require.NoError(t, draft.SetMemberField(1, "name", "João"))

	submission := draft.Submission()
	submission.Members[0].Name = "Alterado"
	submission.Name = "Alterado"

	fresh := draft.Submission()
	assert.Equal(t, "João", fresh.Members[0].Name)
	assert.Empty(t, fresh.Name)
}

func TestRegistry_DraftPerEdital(t *testing.T) {
	previews, err := NewPreviewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(previews.Close)

	registry := NewRegistry(previews)

	a := registry.Draft("ed-1")
	b := registry.Draft("ed-2")
	assert.NotSame(t, a, b)
	assert.Same(t, a, registry.Draft("ed-1"))

	// Discard libera os previews do rascunho descartado
	a.AddMember()
	token, err := a.SetMemberPhoto(1, attachment("a.png"))
	require.NoError(t, err)

	registry.Discard("ed-1")

	_, ok := previews.Path(token)
	assert.False(t, ok)
	assert.NotSame(t, a, registry.Draft("ed-1"))
}
