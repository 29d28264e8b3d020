package app

import (
	"errors"
	"strings"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupExists   = errors.New("group already exists")
	ErrEmailExists   = errors.New("email already registered")
	ErrUnknownGroup  = errors.New("client_group does not match any group")
)

// AdminService covers the dashboard's template, group, and user management.
// The groups table is the canonical tenant list: every client_group value
// written here must reference an existing group by name.
type AdminService struct {
	clientRepo   *repository.ClientRepository
	templateRepo *repository.TemplateRepository
	groupRepo    *repository.GroupRepository
}

type UpsertTemplateInput struct {
	Name         string
	ClientGroup  string
	Instructions string
	Model        string
	Temperature  *float32
	TopP         *float32
	Avatar       string
	Voice        string
	Background   string
	Language     string
}

type UpsertGroupInput struct {
	Name        string
	Description string
}

type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	ClientGroup string
	IsActive    *bool
}

type UpdateUserInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	ClientGroup string
	IsActive    *bool
}

func NewAdminService(
	clientRepo *repository.ClientRepository,
	templateRepo *repository.TemplateRepository,
	groupRepo *repository.GroupRepository,
) *AdminService {
	return &AdminService{
		clientRepo:   clientRepo,
		templateRepo: templateRepo,
		groupRepo:    groupRepo,
	}
}

func (s *AdminService) ListTemplates() ([]model.Template, error) {
	return s.templateRepo.List()
}

func (s *AdminService) ListTemplatesByGroup(group string) ([]model.Template, error) {
	return s.templateRepo.ListByGroup(group)
}

func (s *AdminService) CreateTemplate(input UpsertTemplateInput) (*model.Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if err := s.requireGroup(input.ClientGroup); err != nil {
		return nil, err
	}

	template := &model.Template{
		Name:         name,
		ClientGroup:  input.ClientGroup,
		Instructions: input.Instructions,
		Model:        input.Model,
		Temperature:  1.0,
		TopP:         1.0,
		Avatar:       input.Avatar,
		Voice:        input.Voice,
		Background:   input.Background,
		Language:     input.Language,
	}
	if input.Temperature != nil {
		template.Temperature = *input.Temperature
	}
	if input.TopP != nil {
		template.TopP = *input.TopP
	}
	if err := s.templateRepo.Create(template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *AdminService) UpdateTemplate(id uint, input UpsertTemplateInput) (*model.Template, error) {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		template.Name = name
	}
	if input.ClientGroup != "" {
		if err := s.requireGroup(input.ClientGroup); err != nil {
			return nil, err
		}
		template.ClientGroup = input.ClientGroup
	}
	if input.Instructions != "" {
		template.Instructions = input.Instructions
	}
	if input.Model != "" {
		template.Model = input.Model
	}
	if input.Temperature != nil {
		template.Temperature = *input.Temperature
	}
	if input.TopP != nil {
		template.TopP = *input.TopP
	}
	if input.Avatar != "" {
		template.Avatar = input.Avatar
	}
	if input.Voice != "" {
		template.Voice = input.Voice
	}
	if input.Background != "" {
		template.Background = input.Background
	}
	if input.Language != "" {
		template.Language = input.Language
	}

	if err := s.templateRepo.Update(template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *AdminService) DeleteTemplate(id uint) error {
	deleted, err := s.templateRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *AdminService) ListGroups() ([]model.Group, error) {
	return s.groupRepo.List()
}

func (s *AdminService) CreateGroup(input UpsertGroupInput) (*model.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.groupRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrGroupExists
	}

	group := &model.Group{Name: name, Description: input.Description}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *AdminService) UpdateGroup(id uint, input UpsertGroupInput) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != group.Name {
		existing, err := s.groupRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrGroupExists
		}
		group.Name = name
	}
	if input.Description != "" {
		group.Description = input.Description
	}
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *AdminService) DeleteGroup(id uint) error {
	deleted, err := s.groupRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGroupNotFound
	}
	return nil
}

func (s *AdminService) ListUsers() ([]model.Client, error) {
	return s.clientRepo.List()
}

func (s *AdminService) ListUsersByGroup(group string) ([]model.Client, error) {
	return s.clientRepo.ListByGroup(group)
}

func (s *AdminService) CreateUser(input CreateUserInput) (*model.Client, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	name := strings.TrimSpace(input.Name)
	if email == "" || password == "" || name == "" {
		return nil, ErrInvalidInput
	}
	if err := s.requireGroup(input.ClientGroup); err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = "user"
	}
	client := &model.Client{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		ClientGroup:  input.ClientGroup,
		IsActive:     true,
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *AdminService) UpdateUser(id uint, input UpdateUserInput) (*model.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	if email := strings.TrimSpace(strings.ToLower(input.Email)); email != "" && email != client.Email {
		existing, err := s.clientRepo.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailExists
		}
		client.Email = email
	}
	if password := strings.TrimSpace(input.Password); password != "" {
		hash, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	if input.Role != "" {
		client.Role = input.Role
	}
	if input.ClientGroup != "" {
		if err := s.requireGroup(input.ClientGroup); err != nil {
			return nil, err
		}
		client.ClientGroup = input.ClientGroup
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *AdminService) DeleteUser(id uint) error {
	deleted, err := s.clientRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrClientNotFound
	}
	return nil
}

func (s *AdminService) requireGroup(name string) error {
	if name == "" {
		return nil
	}
	group, err := s.groupRepo.GetByName(name)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrUnknownGroup
	}
	return nil
}
