package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	openai "github.com/sashabaranov/go-openai"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

func newFunctionService(t *testing.T) (*FunctionService, *mockAssistantAPI, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	api := &mockAssistantAPI{}
	svc := NewFunctionService(
		repository.NewFunctionRepository(db),
		repository.NewAssistantRepository(db),
		newTestResolver(),
		api,
		time.Second,
	)
	client := seedClient(t, db, "a@x.com", "p", "acme", true)
	seedAssistant(t, db, client.ID, "asst_x")
	return svc, api, db
}

func TestAddFunction(t *testing.T) {
	svc, api, _ := newFunctionService(t)

	fn, err := svc.Add(context.Background(), "asst_x", AddFunctionInput{
		Name:        "book_meeting",
		Description: "Books a meeting room",
		Parameters:  `{"type":"object","properties":{"room":{"type":"string"}}}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "book_meeting", fn.Name)

	require.Len(t, api.tools, 1)
	assert.Equal(t, openai.AssistantToolTypeFunction, api.tools[0].Type)
	assert.Equal(t, "book_meeting", api.tools[0].Function.Name)

	listed, err := svc.List("asst_x")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestAddFunctionRejectsInvalidJSON(t *testing.T) {
	svc, _, _ := newFunctionService(t)

	_, err := svc.Add(context.Background(), "asst_x", AddFunctionInput{
		Name:       "broken",
		Parameters: "{not json",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddFunctionDuplicate(t *testing.T) {
	svc, _, _ := newFunctionService(t)

	_, err := svc.Add(context.Background(), "asst_x", AddFunctionInput{Name: "dup"})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "asst_x", AddFunctionInput{Name: "dup"})
	assert.ErrorIs(t, err, ErrFunctionExists)
}

func TestDeleteFunction(t *testing.T) {
	svc, api, _ := newFunctionService(t)

	_, err := svc.Add(context.Background(), "asst_x", AddFunctionInput{Name: "keep"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "asst_x", AddFunctionInput{Name: "drop"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "asst_x", "drop"))

	require.Len(t, api.tools, 1)
	assert.Equal(t, "keep", api.tools[0].Function.Name)

	listed, err := svc.List("asst_x")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "keep", listed[0].Name)
}

func TestDeleteFunctionUnknownName(t *testing.T) {
	svc, _, _ := newFunctionService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "asst_x", "ghost"), ErrFunctionNotFound)
}

func TestDeleteFunctionDropsStaleMirror(t *testing.T) {
	svc, _, db := newFunctionService(t)

	// mirror row with no remote counterpart
	var assistant model.Assistant
	require.NoError(t, db.First(&assistant, "asst_id = ?", "asst_x").Error)
	require.NoError(t, db.Create(&model.AssistantFunction{
		AssistantID: assistant.ID,
		Name:        "stale",
	}).Error)

	assert.ErrorIs(t, svc.Delete(context.Background(), "asst_x", "stale"), ErrFunctionNotFound)

	var count int64
	require.NoError(t, db.Model(&model.AssistantFunction{}).Where("name = ?", "stale").Count(&count).Error)
	assert.Zero(t, count)
}
