package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/ai"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrAssistantNotFound = errors.New("assistant not found")
	ErrTemplateNotFound  = errors.New("template not found")

	// ErrInconsistentState marks a partial failure: the remote side was
	// mutated but the local write did not land. It is logged with the remote
	// identifier so drift can be reconciled instead of silently accumulating.
	ErrInconsistentState = errors.New("local and remote state diverged")
)

// AssistantAPI is the slice of the remote assistants API this service and the
// index worker consume. Declared here so tests can substitute a mock.
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, credential string, spec ai.AssistantSpec) (string, error)
	UpdateAssistant(ctx context.Context, credential, asstID string, spec ai.AssistantSpec) error
	DeleteAssistant(ctx context.Context, credential, asstID string) error
	GetTools(ctx context.Context, credential, asstID string) ([]openai.AssistantTool, error)
	SetTools(ctx context.Context, credential, asstID string, tools []openai.AssistantTool) error
	CreateVectorStore(ctx context.Context, credential, name string) (string, error)
	UploadFile(ctx context.Context, credential, name string, data []byte) (string, error)
	AttachFileToVectorStore(ctx context.Context, credential, storeID, fileID string) (string, error)
	WaitForFileIndexed(ctx context.Context, credential, storeID, vectorStoreFileID string) error
	DeleteVectorStoreFile(ctx context.Context, credential, storeID, vectorStoreFileID string) error
	AttachVectorStore(ctx context.Context, credential, asstID, storeID string) error
}

// AssistantService coordinates assistant configuration across the remote API
// and the local database. Remote first, local second; a failed local write
// after a remote create is compensated by deleting the remote resource.
type AssistantService struct {
	assistantRepo *repository.AssistantRepository
	clientRepo    *repository.ClientRepository
	templateRepo  *repository.TemplateRepository
	resolver      *tenant.Resolver
	api           AssistantAPI
	defaultModel  string
	callTimeout   time.Duration
}

type CreateAssistantInput struct {
	ClientID     uint
	TemplateID   uint
	Name         string
	Instructions string
	Model        string
	Temperature  *float32
	TopP         *float32
	Avatar       string
	Voice        string
	Background   string
	Language     string
}

type UpdateAssistantInput struct {
	Name         string
	Instructions string
	Model        string
	Temperature  *float32
	TopP         *float32
	Avatar       string
	Voice        string
	Background   string
	Language     string
}

func NewAssistantService(
	assistantRepo *repository.AssistantRepository,
	clientRepo *repository.ClientRepository,
	templateRepo *repository.TemplateRepository,
	resolver *tenant.Resolver,
	api AssistantAPI,
	defaultModel string,
	callTimeout time.Duration,
) *AssistantService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &AssistantService{
		assistantRepo: assistantRepo,
		clientRepo:    clientRepo,
		templateRepo:  templateRepo,
		resolver:      resolver,
		api:           api,
		defaultModel:  defaultModel,
		callTimeout:   callTimeout,
	}
}

// Create provisions the remote assistant and inserts the local row. With a
// template, caller-supplied fields win over template fields; without one,
// fixed defaults apply (configured model, temperature 1.0, top_p 1.0).
func (s *AssistantService) Create(ctx context.Context, input CreateAssistantInput) (*model.Assistant, error) {
	if input.ClientID == 0 || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}

	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	credential, err := s.resolver.ResolveCredential(client.ClientGroup)
	if err != nil {
		return nil, err
	}

	assistant := model.Assistant{
		ClientID:     input.ClientID,
		Name:         strings.TrimSpace(input.Name),
		Instructions: input.Instructions,
		Model:        s.defaultModel,
		Temperature:  1.0,
		TopP:         1.0,
		Avatar:       input.Avatar,
		Voice:        input.Voice,
		Background:   input.Background,
		Language:     input.Language,
	}

	if input.TemplateID != 0 {
		template, err := s.templateRepo.GetByID(input.TemplateID)
		if err != nil {
			return nil, err
		}
		if template == nil {
			return nil, ErrTemplateNotFound
		}
		applyTemplate(&assistant, template)
	}
	applyOverrides(&assistant, input)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	asstID, err := s.api.CreateAssistant(callCtx, credential, ai.AssistantSpec{
		Name:         assistant.Name,
		Instructions: assistant.Instructions,
		Model:        assistant.Model,
		Temperature:  assistant.Temperature,
		TopP:         assistant.TopP,
	})
	if err != nil {
		return nil, err
	}
	assistant.AsstID = asstID

	if err := s.assistantRepo.Create(&assistant); err != nil {
		s.compensateCreate(ctx, credential, asstID)
		return nil, err
	}
	return &assistant, nil
}

// compensateCreate removes the remote assistant created by a request whose
// local insert failed. If the delete itself fails the orphan is logged so an
// operator can reconcile it.
func (s *AssistantService) compensateCreate(ctx context.Context, credential, asstID string) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	if err := s.api.DeleteAssistant(callCtx, credential, asstID); err != nil {
		log.Printf("INCONSISTENT: orphaned remote assistant %s, compensating delete failed: %v", asstID, err)
	}
}

// Update pushes the remote-visible fields, then writes every configuration
// field locally and returns the canonical row. A local miss after the remote
// push is reported as both not-found and an inconsistency.
func (s *AssistantService) Update(ctx context.Context, asstID string, input UpdateAssistantInput) (*model.Assistant, error) {
	existing, credential, err := s.requireAssistant(asstID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	applyUpdate(&merged, input)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	err = s.api.UpdateAssistant(callCtx, credential, asstID, ai.AssistantSpec{
		Name:         merged.Name,
		Instructions: merged.Instructions,
		Model:        merged.Model,
		Temperature:  merged.Temperature,
		TopP:         merged.TopP,
	})
	if err != nil {
		return nil, err
	}

	matched, err := s.assistantRepo.UpdateFields(asstID, map[string]any{
		"name":         merged.Name,
		"instructions": merged.Instructions,
		"model":        merged.Model,
		"temperature":  merged.Temperature,
		"top_p":        merged.TopP,
		"avatar":       merged.Avatar,
		"voice":        merged.Voice,
		"background":   merged.Background,
		"language":     merged.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: remote assistant %s updated, local write failed: %v", ErrInconsistentState, asstID, err)
	}
	if !matched {
		log.Printf("INCONSISTENT: remote assistant %s updated but local row vanished", asstID)
		return nil, fmt.Errorf("%w: %w", ErrAssistantNotFound, ErrInconsistentState)
	}

	return s.assistantRepo.GetByAsstID(asstID)
}

// SoftDelete flags the row. The remote resource and all history stay intact,
// and repeating the call is a no-op.
func (s *AssistantService) SoftDelete(asstID string) error {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return err
	}
	if assistant == nil {
		return ErrAssistantNotFound
	}
	if assistant.IsDeleted {
		return nil
	}
	_, err = s.assistantRepo.SoftDelete(asstID)
	return err
}

// ToggleFileSearch sets the remote tool list to [file_search] or strips the
// tool, then mirrors the flag locally.
func (s *AssistantService) ToggleFileSearch(ctx context.Context, asstID string, enabled bool) (*model.Assistant, error) {
	_, credential, err := s.requireAssistant(asstID)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	tools, err := s.api.GetTools(callCtx, credential, asstID)
	if err != nil {
		return nil, err
	}

	next := make([]openai.AssistantTool, 0, len(tools)+1)
	for _, tool := range tools {
		if tool.Type == openai.AssistantToolTypeFileSearch {
			continue
		}
		next = append(next, tool)
	}
	if enabled {
		next = append(next, openai.AssistantTool{Type: openai.AssistantToolTypeFileSearch})
	}

	if err := s.api.SetTools(callCtx, credential, asstID, next); err != nil {
		return nil, err
	}

	matched, err := s.assistantRepo.UpdateFields(asstID, map[string]any{"file_search_enabled": enabled})
	if err != nil {
		return nil, fmt.Errorf("%w: remote tools for %s updated, local write failed: %v", ErrInconsistentState, asstID, err)
	}
	if !matched {
		log.Printf("INCONSISTENT: remote tools for %s updated but local row vanished", asstID)
		return nil, fmt.Errorf("%w: %w", ErrAssistantNotFound, ErrInconsistentState)
	}
	return s.assistantRepo.GetByAsstID(asstID)
}

func (s *AssistantService) Get(asstID string) (*model.Assistant, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return assistant, nil
}

func (s *AssistantService) ListByClient(clientID uint) ([]model.Assistant, error) {
	if clientID == 0 {
		return nil, ErrInvalidInput
	}
	return s.assistantRepo.ListByClientID(clientID)
}

func (s *AssistantService) ListByGroup(group string) ([]model.Assistant, error) {
	return s.assistantRepo.ListByGroup(group)
}

func (s *AssistantService) ListAll() ([]model.Assistant, error) {
	return s.assistantRepo.ListAll()
}

// requireAssistant loads the local row and resolves the tenant credential
// through the owning client. The group is never taken from the request.
func (s *AssistantService) requireAssistant(asstID string) (*model.Assistant, string, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, "", err
	}
	if assistant == nil {
		return nil, "", ErrAssistantNotFound
	}

	group, err := s.assistantRepo.OwnerGroup(asstID)
	if err != nil {
		return nil, "", err
	}
	credential, err := s.resolver.ResolveCredential(group)
	if err != nil {
		return nil, "", err
	}
	return assistant, credential, nil
}

func applyTemplate(assistant *model.Assistant, template *model.Template) {
	assistant.Instructions = template.Instructions
	if template.Model != "" {
		assistant.Model = template.Model
	}
	assistant.Temperature = template.Temperature
	assistant.TopP = template.TopP
	assistant.Avatar = template.Avatar
	assistant.Voice = template.Voice
	assistant.Background = template.Background
	assistant.Language = template.Language
}

// applyOverrides lays the caller's fields over whatever the template (or the
// defaults) produced; caller values win on conflict.
func applyOverrides(assistant *model.Assistant, input CreateAssistantInput) {
	if input.Instructions != "" {
		assistant.Instructions = input.Instructions
	}
	if input.Model != "" {
		assistant.Model = input.Model
	}
	if input.Temperature != nil {
		assistant.Temperature = *input.Temperature
	}
	if input.TopP != nil {
		assistant.TopP = *input.TopP
	}
	if input.Avatar != "" {
		assistant.Avatar = input.Avatar
	}
	if input.Voice != "" {
		assistant.Voice = input.Voice
	}
	if input.Background != "" {
		assistant.Background = input.Background
	}
	if input.Language != "" {
		assistant.Language = input.Language
	}
}

func applyUpdate(assistant *model.Assistant, input UpdateAssistantInput) {
	if input.Name != "" {
		assistant.Name = strings.TrimSpace(input.Name)
	}
	if input.Instructions != "" {
		assistant.Instructions = input.Instructions
	}
	if input.Model != "" {
		assistant.Model = input.Model
	}
	if input.Temperature != nil {
		assistant.Temperature = *input.Temperature
	}
	if input.TopP != nil {
		assistant.TopP = *input.TopP
	}
	if input.Avatar != "" {
		assistant.Avatar = input.Avatar
	}
	if input.Voice != "" {
		assistant.Voice = input.Voice
	}
	if input.Background != "" {
		assistant.Background = input.Background
	}
	if input.Language != "" {
		assistant.Language = input.Language
	}
}
