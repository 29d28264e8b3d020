package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

var (
	ErrFunctionNotFound = errors.New("function not found")
	ErrFunctionExists   = errors.New("function already registered")
)

// FunctionService maintains the function-type tools of an assistant: the
// remote tool list is the authority, the local table is a queryable mirror.
type FunctionService struct {
	functionRepo  *repository.FunctionRepository
	assistantRepo *repository.AssistantRepository
	resolver      *tenant.Resolver
	api           AssistantAPI
	callTimeout   time.Duration
}

type AddFunctionInput struct {
	Name        string
	Description string
	Parameters  string // JSON schema text
}

func NewFunctionService(
	functionRepo *repository.FunctionRepository,
	assistantRepo *repository.AssistantRepository,
	resolver *tenant.Resolver,
	api AssistantAPI,
	callTimeout time.Duration,
) *FunctionService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &FunctionService{
		functionRepo:  functionRepo,
		assistantRepo: assistantRepo,
		resolver:      resolver,
		api:           api,
		callTimeout:   callTimeout,
	}
}

// Add appends a function tool to the remote list, then mirrors it locally.
func (s *FunctionService) Add(ctx context.Context, asstID string, input AddFunctionInput) (*model.AssistantFunction, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if input.Parameters != "" && !json.Valid([]byte(input.Parameters)) {
		return nil, fmt.Errorf("%w: parameters is not valid json", ErrInvalidInput)
	}

	assistant, credential, err := s.requireAssistant(asstID)
	if err != nil {
		return nil, err
	}

	existing, err := s.functionRepo.GetByName(assistant.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFunctionExists
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	tools, err := s.api.GetTools(callCtx, credential, asstID)
	if err != nil {
		return nil, err
	}
	for _, tool := range tools {
		if tool.Type == openai.AssistantToolTypeFunction && tool.Function != nil && tool.Function.Name == name {
			return nil, ErrFunctionExists
		}
	}

	definition := &openai.FunctionDefinition{
		Name:        name,
		Description: input.Description,
	}
	if input.Parameters != "" {
		definition.Parameters = json.RawMessage(input.Parameters)
	}
	tools = append(tools, openai.AssistantTool{
		Type:     openai.AssistantToolTypeFunction,
		Function: definition,
	})
	if err := s.api.SetTools(callCtx, credential, asstID, tools); err != nil {
		return nil, err
	}

	fn := &model.AssistantFunction{
		AssistantID: assistant.ID,
		Name:        name,
		Description: input.Description,
		Parameters:  input.Parameters,
	}
	if err := s.functionRepo.Create(fn); err != nil {
		log.Printf("INCONSISTENT: function %q pushed to %s but local mirror failed: %v", name, asstID, err)
		return nil, fmt.Errorf("%w: function %q not mirrored", ErrInconsistentState, name)
	}
	return fn, nil
}

func (s *FunctionService) List(asstID string) ([]model.AssistantFunction, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return s.functionRepo.ListByAssistantID(assistant.ID)
}

// Delete removes the named function tool remotely and locally. Unknown names
// report not-found without touching the remote list.
func (s *FunctionService) Delete(ctx context.Context, asstID, name string) error {
	assistant, credential, err := s.requireAssistant(asstID)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	tools, err := s.api.GetTools(callCtx, credential, asstID)
	if err != nil {
		return err
	}

	next := make([]openai.AssistantTool, 0, len(tools))
	found := false
	for _, tool := range tools {
		if tool.Type == openai.AssistantToolTypeFunction && tool.Function != nil && tool.Function.Name == name {
			found = true
			continue
		}
		next = append(next, tool)
	}
	if !found {
		// Remote list is the authority; drop any stale mirror row.
		_, _ = s.functionRepo.DeleteByName(assistant.ID, name)
		return ErrFunctionNotFound
	}

	if err := s.api.SetTools(callCtx, credential, asstID, next); err != nil {
		return err
	}
	if _, err := s.functionRepo.DeleteByName(assistant.ID, name); err != nil {
		log.Printf("INCONSISTENT: function %q removed from %s but local mirror remains: %v", name, asstID, err)
		return fmt.Errorf("%w: stale function mirror %q", ErrInconsistentState, name)
	}
	return nil
}

func (s *FunctionService) requireAssistant(asstID string) (*model.Assistant, string, error) {
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
