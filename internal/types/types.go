package types

// Entry is one positionable resume item: a work experience, a volunteer role
// or a school project.
type Entry struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Period  string   `json:"period"`
	Bullets []string `json:"bullets"`
	IsMatch bool     `json:"isMatch"`
}

// EducationItem is a degree or course of study.
type EducationItem struct {
	ID        string `json:"id"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ReferenceItem is a professional referee.
type ReferenceItem struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	JobTitle     string `json:"jobTitle"`
	Company      string `json:"company"`
	ContactInfo  string `json:"contactInfo"`
	Relationship string `json:"relationship"`
}

// ResumeContent is the full structured resume. Experiences, Volunteer and
// SchoolProjects are the three entry lists the layout engine places on pages.
type ResumeContent struct {
	FullName        string          `json:"fullName"`
	ContactInfo     string          `json:"contactInfo"`
	LinkedIn        string          `json:"linkedin,omitempty"`
	GitHub          string          `json:"github,omitempty"`
	Website         string          `json:"website,omitempty"`
	Summary         string          `json:"summary"`
	TargetJobTitle  string          `json:"targetJobTitle,omitempty"`
	TargetCompany   string          `json:"targetCompany,omitempty"`
	TargetAddress   string          `json:"targetAddress,omitempty"`
	RecipientName   string          `json:"recipientName,omitempty"`
	TechnicalSkills []string        `json:"technicalSkills"`
	SoftSkills      []string        `json:"softSkills"`
	Experiences     []Entry         `json:"experiences"`
	Volunteer       []Entry         `json:"volunteer"`
	SchoolProjects  []Entry         `json:"schoolProjects"`
	Education       []EducationItem `json:"education"`
	References      []ReferenceItem `json:"references"`
}

// Clone returns a deep copy so edits on the copy never alias the original slices.
func (c ResumeContent) Clone() ResumeContent {
	out := c
	out.TechnicalSkills = append([]string(nil), c.TechnicalSkills...)
	out.SoftSkills = append([]string(nil), c.SoftSkills...)
	out.Experiences = cloneEntries(c.Experiences)
	out.Volunteer = cloneEntries(c.Volunteer)
	out.SchoolProjects = cloneEntries(c.SchoolProjects)
	out.Education = append([]EducationItem(nil), c.Education...)
	out.References = append([]ReferenceItem(nil), c.References...)
	return out
}

func cloneEntries(in []Entry) []Entry {
	if in == nil {
		return nil
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = e
		out[i].Bullets = append([]string(nil), e.Bullets...)
	}
	return out
}

// EnglishVariant selects the spelling convention the AI writes in.
type EnglishVariant string

const (
	EnglishAmerican   EnglishVariant = "American"
	EnglishBritish    EnglishVariant = "British"
	EnglishAustralian EnglishVariant = "Australian"
)

// Valid reports whether v is one of the supported variants.
func (v EnglishVariant) Valid() bool {
	switch v {
	case EnglishAmerican, EnglishBritish, EnglishAustralian:
		return true
	}
	return false
}

// AnalyzeResumeInput is the input for scoring a resume against a job description.
type AnalyzeResumeInput struct {
	JobDescription string         `json:"jobDescription" validate:"required"`
	Resume         string         `json:"resume" validate:"required"`
	EnglishVariant EnglishVariant `json:"englishVariant,omitempty" validate:"omitempty,oneof=American British Australian"`
}

// ScoreBreakdown splits the overall match score into weighted components.
type ScoreBreakdown struct {
	CoreSkills        int    `json:"coreSkills"`
	StarQuality       int    `json:"starQuality"`
	IndustryRelevance int    `json:"industryRelevance"`
	Formatting        int    `json:"formatting"`
	Explanation       string `json:"explanation"`
}

// ScoreWeights records how much the job description and skill overlap counted.
type ScoreWeights struct {
	JDRequirements int `json:"jdRequirements"`
	SkillOverlap   int `json:"skillOverlap"`
}

// AnalysisResult is the AI's verdict on a resume plus a rewritten resume and cover letter.
type AnalysisResult struct {
	DetectedLanguage string          `json:"detectedLanguage"`
	OverallScore     int             `json:"overallScore"`
	ScoreBreakdown   *ScoreBreakdown `json:"scoreBreakdown,omitempty"`
	Weights          ScoreWeights    `json:"weights"`
	HardSkills       []string        `json:"hardSkills"`
	SoftSkills       []string        `json:"softSkills"`
	MissingSkills    []string        `json:"missingSkills"`
	CoverLetter      string          `json:"coverLetter"`
	OptimizedResume  ResumeContent   `json:"optimizedResume"`
}

// Project is a portfolio artifact used as evidence for career prediction.
type Project struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Category         string   `json:"category,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	OriginalFileName string   `json:"originalFileName,omitempty"`
	AssociatedSkills []string `json:"associatedSkills"`
	ExternalLink     string   `json:"externalLink,omitempty"`
	SocialPlatform   string   `json:"socialPlatform,omitempty"`
}

// PredictCareerInput carries the evidence for a career prediction.
type PredictCareerInput struct {
	Projects   []Project      `json:"projects"`
	Resume     *ResumeContent `json:"resume,omitempty"`
	TargetRole string         `json:"targetRole,omitempty"`
	TargetJD   string         `json:"targetJd,omitempty"`
}

// SkillMilestone is one point on the predicted skill trajectory.
type SkillMilestone struct {
	Year  string `json:"year"`
	Skill string `json:"skill"`
}

// PlanStep is one step in a career path's plan.
type PlanStep struct {
	Step        string `json:"step"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// CareerPath is one predicted role the candidate could grow into.
type CareerPath struct {
	Role          string     `json:"role"`
	Match         int        `json:"match"`
	SalaryRange   string     `json:"salaryRange"`
	TimeToReach   string     `json:"timeToReach"`
	Description   string     `json:"description"`
	MissingSkills []string   `json:"missingSkills"`
	DetailedPlan  []PlanStep `json:"detailedPlan"`
}

// CareerPrediction is the AI's assessment of where the candidate is heading.
type CareerPrediction struct {
	CurrentLevel    string           `json:"currentLevel"`
	SkillTrajectory []SkillMilestone `json:"skillTrajectory"`
	Paths           []CareerPath     `json:"paths"`
	ActionPlan      []PlanStep       `json:"actionPlan"`
}

// CareerStrategyInput asks for a preparation strategy toward a target role.
type CareerStrategyInput struct {
	TargetRole    string         `json:"targetRole" validate:"required"`
	MissingSkills []string       `json:"missingSkills"`
	Projects      []Project      `json:"projects"`
	Resume        *ResumeContent `json:"resume,omitempty"`
}

// GapFix is advice for closing one skill gap.
type GapFix struct {
	Topic    string `json:"topic"`
	Advice   string `json:"advice"`
	Resource string `json:"resource"`
}

// InterviewQuestion is a likely interview question with a suggested answer.
type InterviewQuestion struct {
	Question        string `json:"question"`
	SuggestedAnswer string `json:"suggestedAnswer"`
}

// PortfolioUpgrade suggests a portfolio piece worth building.
type PortfolioUpgrade struct {
	Title    string `json:"title"`
	Strategy string `json:"strategy"`
}

// CareerStrategy is the AI's preparation plan for a target role.
type CareerStrategy struct {
	GapFix           []GapFix            `json:"gapFix"`
	InterviewPrep    []InterviewQuestion `json:"interviewPrep"`
	PortfolioUpgrade []PortfolioUpgrade  `json:"portfolioUpgrade"`
}

// StrategyRecord is the stored form of a strategy, kept with the role it was
// built for.
type StrategyRecord struct {
	TargetRole string `json:"targetRole"`
	CareerStrategy
}

// ProjectSuggestionInput asks for a project that would prove a missing skill.
type ProjectSuggestionInput struct {
	Skill  string         `json:"skill" validate:"required"`
	Resume *ResumeContent `json:"resume,omitempty"`
}

// ProjectSuggestion is a gap-filling project idea.
type ProjectSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// ChatMessage is one turn of a coaching conversation. Role is "user" or "model".
type ChatMessage struct {
	Role string `json:"role" validate:"oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// CoachInput is a coaching conversation plus the context the coach may use.
// The last message is the one being answered.
type CoachInput struct {
	Messages       []ChatMessage  `json:"messages" validate:"required,min=1,dive"`
	Resume         *ResumeContent `json:"resume,omitempty"`
	JobDescription string         `json:"jobDescription,omitempty"`
	HealthScore    *int           `json:"healthScore,omitempty" validate:"omitempty,min=0,max=100"`
}

// CoachReply is the coach's answer to the last message.
type CoachReply struct {
	Reply string `json:"reply"`
}

// DocumentSummaryInput is the extracted text of a report, assignment or
// project write-up, with optional background on its author.
type DocumentSummaryInput struct {
	Text    string `json:"text" validate:"required"`
	Context string `json:"context,omitempty"`
}

// DocumentSummary frames a document as a professional achievement.
type DocumentSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}
