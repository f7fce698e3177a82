package config

import "fmt"

// AI operation names. They double as config keys under "ai." and as the
// prompt store keys.
const (
	OperationAnalyze   = "analyze"
	OperationPredict   = "predict"
	OperationStrategy  = "strategy"
	OperationSuggest   = "suggest"
	OperationCoach     = "coach"
	OperationSummarize = "summarize"
)

// Operations lists every AI operation.
var Operations = []string{
	OperationAnalyze, OperationPredict, OperationStrategy,
	OperationSuggest, OperationCoach, OperationSummarize,
}

func (a *AIConfig) operation(name string) *OperationAIConfig {
	switch name {
	case OperationAnalyze:
		return &a.Analyze
	case OperationPredict:
		return &a.Predict
	case OperationStrategy:
		return &a.Strategy
	case OperationSuggest:
		return &a.Suggest
	case OperationCoach:
		return &a.Coach
	case OperationSummarize:
		return &a.Summarize
	default:
		return nil
	}
}

// applyOperationDefaults fills unset operation fields from the global AI config.
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// OperationConfig returns the effective configuration of the named operation.
func (c *Config) OperationConfig(name string) (OperationAIConfig, error) {
	op := c.AI.operation(name)
	if op == nil {
		return OperationAIConfig{}, fmt.Errorf("unknown AI operation: %s", name)
	}
	cfg := *op
	c.applyOperationDefaults(&cfg)
	return cfg, nil
}
