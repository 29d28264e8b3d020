package app

import (
	"errors"
	"strings"
	"time"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

var ErrThreadNotFound = errors.New("thread not found")

// ThreadService records the conversation transcript the avatar frontend
// drives against the remote API. Threads reference the remote conversation by
// its external identifier; messages are append-only.
type ThreadService struct {
	threadRepo    *repository.ThreadRepository
	messageRepo   *repository.MessageRepository
	assistantRepo *repository.AssistantRepository
}

type CreateThreadInput struct {
	AsstID   string
	ThreadID string // external identifier assigned by the remote API
	Title    string
}

type AppendMessageInput struct {
	ThreadID uint
	Role     string
	Content  string
}

func NewThreadService(
	threadRepo *repository.ThreadRepository,
	messageRepo *repository.MessageRepository,
	assistantRepo *repository.AssistantRepository,
) *ThreadService {
	return &ThreadService{
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		assistantRepo: assistantRepo,
	}
}

func (s *ThreadService) CreateThread(input CreateThreadInput) (*model.Thread, error) {
	threadID := strings.TrimSpace(input.ThreadID)
	if threadID == "" {
		return nil, ErrInvalidInput
	}

	assistant, err := s.assistantRepo.GetByAsstID(input.AsstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Conversation"
	}
	thread := &model.Thread{
		AssistantID: assistant.ID,
		ThreadID:    threadID,
		Title:       title,
	}
	if err := s.threadRepo.Create(thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *ThreadService) ListThreads(asstID string) ([]model.Thread, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return s.threadRepo.ListByAsstID(asstID)
}

func (s *ThreadService) AppendMessage(input AppendMessageInput) (*model.Message, error) {
	content := strings.TrimSpace(input.Content)
	if input.ThreadID == 0 || content == "" {
		return nil, ErrInvalidInput
	}
	if input.Role != "user" && input.Role != "assistant" {
		return nil, ErrInvalidInput
	}

	thread, err := s.threadRepo.GetByID(input.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	message := &model.Message{
		ThreadID:  input.ThreadID,
		Role:      input.Role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *ThreadService) ListMessages(threadID uint, limit int) ([]model.Message, error) {
	if threadID == 0 {
		return nil, ErrInvalidInput
	}
	thread, err := s.threadRepo.GetByID(threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	return s.messageRepo.ListByThreadID(threadID, limit)
}
