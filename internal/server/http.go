package server

import (
	"fmt"
	"sync"
	"time"

	"fastresume/internal/ai"
	"fastresume/internal/config"
	"fastresume/internal/errors"
	"fastresume/internal/layout"
	"fastresume/internal/store"
	"fastresume/internal/types"

	"github.com/go-playground/validator/v10"
)

// StrategyRequest represents the request body for the strategy endpoint.
// Save defaults to true so results land in the career strategy history.
type StrategyRequest struct {
	types.CareerStrategyInput
	Save *bool `json:"save,omitempty"`
}

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	types.AnalyzeResumeInput
	Save *bool `json:"save,omitempty"`
}

// ComposeRequest carries a layout document to paginate.
type ComposeRequest struct {
	Document layout.Document `json:"document"`
}

// DeletePageRequest deletes one resume page. Confirm must be true to clear
// the only page.
type DeletePageRequest struct {
	Document layout.Document `json:"document"`
	Page     int             `json:"page" validate:"gte=0"`
	Confirm  bool            `json:"confirm"`
}

// MoveRequest pins an entry to a page.
type MoveRequest struct {
	Document layout.Document `json:"document"`
	EntryID  string          `json:"entryId" validate:"required"`
	Page     int             `json:"page" validate:"gte=0"`
}

// SettingsRequest patches the page settings of one region.
type SettingsRequest struct {
	Document layout.Document      `json:"document"`
	Region   string               `json:"region" validate:"required"`
	Patch    layout.SettingsPatch `json:"patch"`
}

// EntryRequest adds an entry to a section or removes one by id.
type EntryRequest struct {
	Document layout.Document `json:"document"`
	Action   string          `json:"action" validate:"required,oneof=add remove"`
	Kind     string          `json:"kind" validate:"required_if=Action add"`
	Entry    *types.Entry    `json:"entry,omitempty" validate:"required_if=Action add"`
	EntryID  string          `json:"entryId,omitempty" validate:"required_if=Action remove"`
}

// RemoveLastPageRequest deletes the final resume page.
type RemoveLastPageRequest struct {
	Document layout.Document `json:"document"`
	Confirm  bool            `json:"confirm"`
}

// CoverLetterRequest edits the cover letter pages. Page is 0-based.
type CoverLetterRequest struct {
	Document layout.Document `json:"document"`
	Action   string          `json:"action" validate:"required,oneof=add-page remove-last-page delete-page set-page"`
	Page     int             `json:"page" validate:"gte=0"`
	Text     string          `json:"text"`
}

// LayoutResponse is returned by every layout endpoint.
type LayoutResponse = layout.Plan

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ServiceFactory builds the AI service of one operation.
type ServiceFactory func(operation string) (*ai.Service, error)

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// History is nil when persistence is unavailable; history endpoints
	// then answer 503.
	History *store.HistoryStore

	PromptWatcher *PromptWatcher

	Logger *errors.Logger

	newService ServiceFactory
	servicesMu sync.Mutex
	services   map[string]*ai.Service
	validate   *validator.Validate
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
	History        *store.HistoryStore
	// NewService overrides how AI services are built. Nil uses the
	// operation's configuration.
	NewService ServiceFactory
}

// ServerConfigFrom maps the application config onto a ServerConfig.
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxBodyBytes,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		History:        cfg.History,
		Logger:         logger,
		newService:     cfg.NewService,
		services:       make(map[string]*ai.Service),
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
	if s.newService == nil {
		s.newService = s.configuredService
	}
	return s
}

func (s *Server) configuredService(operation string) (*ai.Service, error) {
	opCfg, err := s.AppConfig.OperationConfig(operation)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, err.Error(), err)
	}
	return ai.NewService(&opCfg, operation, s.Logger)
}

// service returns the cached AI service of operation, creating it on first
// use. Failed creations are not cached so a later request can retry.
func (s *Server) service(operation string) (*ai.Service, error) {
	s.servicesMu.Lock()
	defer s.servicesMu.Unlock()

	if svc, ok := s.services[operation]; ok {
		return svc, nil
	}
	svc, err := s.newService(operation)
	if err != nil {
		return nil, err
	}
	s.services[operation] = svc
	return svc, nil
}

// closeServices releases every cached AI service.
func (s *Server) closeServices() {
	s.servicesMu.Lock()
	defer s.servicesMu.Unlock()

	for op, svc := range s.services {
		if err := svc.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close AI service", "operation", op)
		}
		delete(s.services, op)
	}
}

// defaultPageSettings returns the configured layout defaults.
func (s *Server) defaultPageSettings() layout.PageSettings {
	if s.AppConfig == nil {
		return layout.DefaultPageSettings
	}
	return s.AppConfig.Layout.PageSettings
}

func (s *Server) addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}
