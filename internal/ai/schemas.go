package ai

import "google.golang.org/genai"

func stringSchema() *genai.Schema  { return &genai.Schema{Type: genai.TypeString} }
func integerSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeInteger} }

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

func objectOf(properties map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: properties, Required: required}
}

// entrySchema describes a work, volunteer or school project entry.
func entrySchema(roleDesc, companyDesc string) *genai.Schema {
	return objectOf(map[string]*genai.Schema{
		"id":      stringSchema(),
		"role":    {Type: genai.TypeString, Description: roleDesc},
		"company": {Type: genai.TypeString, Description: companyDesc},
		"period":  stringSchema(),
		"bullets": arrayOf(stringSchema()),
		"isMatch": {Type: genai.TypeBoolean},
	}, "role", "company", "period", "bullets")
}

func planStepSchema() *genai.Schema {
	return objectOf(map[string]*genai.Schema{
		"step":        stringSchema(),
		"description": stringSchema(),
		"impact":      stringSchema(),
	}, "step", "description", "impact")
}

func resumeContentSchema() *genai.Schema {
	return objectOf(map[string]*genai.Schema{
		"fullName":        stringSchema(),
		"contactInfo":     stringSchema(),
		"linkedin":        stringSchema(),
		"github":          stringSchema(),
		"website":         stringSchema(),
		"summary":         stringSchema(),
		"targetJobTitle":  stringSchema(),
		"targetCompany":   stringSchema(),
		"targetAddress":   stringSchema(),
		"recipientName":   stringSchema(),
		"technicalSkills": arrayOf(stringSchema()),
		"softSkills":      arrayOf(stringSchema()),
		"education": arrayOf(objectOf(map[string]*genai.Schema{
			"id":        stringSchema(),
			"school":    stringSchema(),
			"degree":    stringSchema(),
			"startDate": stringSchema(),
			"endDate":   stringSchema(),
		}, "school", "degree")),
		"references": arrayOf(objectOf(map[string]*genai.Schema{
			"id":           stringSchema(),
			"fullName":     stringSchema(),
			"jobTitle":     stringSchema(),
			"company":      stringSchema(),
			"contactInfo":  stringSchema(),
			"relationship": stringSchema(),
		}, "fullName", "jobTitle", "company", "contactInfo", "relationship")),
		"experiences":    arrayOf(entrySchema("Job title", "Employer")),
		"volunteer":      arrayOf(entrySchema("Volunteer role", "Organization")),
		"schoolProjects": arrayOf(entrySchema("Project role or name", "Course name or institution")),
	}, "fullName", "contactInfo", "summary", "technicalSkills", "softSkills", "experiences", "volunteer", "schoolProjects", "education", "references")
}

// buildAnalyzeSchema creates the response schema for resume analysis.
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"detectedLanguage": {Type: genai.TypeString, Enum: []string{"en", "zh"}},
		"overallScore":     integerSchema(),
		"scoreBreakdown": objectOf(map[string]*genai.Schema{
			"coreSkills":        {Type: genai.TypeInteger, Description: "Includes semantic matches at 50% credit"},
			"starQuality":       {Type: genai.TypeInteger, Description: "Based on quantification"},
			"industryRelevance": integerSchema(),
			"formatting":        integerSchema(),
			"explanation":       {Type: genai.TypeString, Description: "Include the score boosting strategy"},
		}, "coreSkills", "starQuality", "industryRelevance", "formatting", "explanation"),
		"weights": objectOf(map[string]*genai.Schema{
			"jdRequirements": integerSchema(),
			"skillOverlap":   integerSchema(),
		}),
		"hardSkills":      arrayOf(stringSchema()),
		"softSkills":      arrayOf(stringSchema()),
		"missingSkills":   arrayOf(stringSchema()),
		"coverLetter":     stringSchema(),
		"optimizedResume": resumeContentSchema(),
	}, "detectedLanguage", "overallScore", "scoreBreakdown", "hardSkills", "softSkills", "missingSkills", "coverLetter", "optimizedResume"))
}

// buildPredictSchema creates the response schema for career prediction.
func (g *GeminiProvider) buildPredictSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"currentLevel": stringSchema(),
		"skillTrajectory": arrayOf(objectOf(map[string]*genai.Schema{
			"year":  stringSchema(),
			"skill": stringSchema(),
		}, "year", "skill")),
		"paths": arrayOf(objectOf(map[string]*genai.Schema{
			"role":          stringSchema(),
			"match":         integerSchema(),
			"salaryRange":   stringSchema(),
			"timeToReach":   stringSchema(),
			"description":   stringSchema(),
			"missingSkills": arrayOf(stringSchema()),
			"detailedPlan":  arrayOf(planStepSchema()),
		}, "role", "match", "salaryRange", "timeToReach", "description", "missingSkills")),
		"actionPlan": arrayOf(planStepSchema()),
	}, "currentLevel", "skillTrajectory", "paths", "actionPlan"))
}

// buildStrategySchema creates the response schema for career strategies.
func (g *GeminiProvider) buildStrategySchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"gapFix": arrayOf(objectOf(map[string]*genai.Schema{
			"topic":    stringSchema(),
			"advice":   stringSchema(),
			"resource": stringSchema(),
		}, "topic", "advice", "resource")),
		"interviewPrep": arrayOf(objectOf(map[string]*genai.Schema{
			"question":        stringSchema(),
			"suggestedAnswer": stringSchema(),
		}, "question", "suggestedAnswer")),
		"portfolioUpgrade": arrayOf(objectOf(map[string]*genai.Schema{
			"title":    stringSchema(),
			"strategy": stringSchema(),
		}, "title", "strategy")),
	}, "gapFix", "interviewPrep", "portfolioUpgrade"))
}

// buildSuggestSchema creates the response schema for project suggestions.
func (g *GeminiProvider) buildSuggestSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"title":       stringSchema(),
		"description": stringSchema(),
		"type":        {Type: genai.TypeString, Description: "Project type, e.g. Case Study, GitHub Repo, Mockup"},
	}, "title", "description", "type"))
}

// buildCoachSchema wraps the coach's free-text answer in a JSON object.
func (g *GeminiProvider) buildCoachSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"reply": stringSchema(),
	}, "reply"))
}

// buildSummarizeSchema creates the response schema for document summaries.
func (g *GeminiProvider) buildSummarizeSchema() *genai.GenerateContentConfig {
	return g.jsonConfig(objectOf(map[string]*genai.Schema{
		"summary":   {Type: genai.TypeString, Description: "Professional executive summary"},
		"keyPoints": {Type: genai.TypeArray, Items: stringSchema(), Description: "Competency tags"},
	}, "summary", "keyPoints"))
}

// jsonConfig wraps a response schema in a JSON generation config, applying
// the configured temperature when set.
func (g *GeminiProvider) jsonConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}
