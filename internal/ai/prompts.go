package ai

import "fastresume/internal/config"

// Prompts is the system instruction and user template of one operation.
// User templates are fmt format strings; see the builders in prompt_builder.go
// for the arguments each operation passes.
type Prompts struct {
	System string
	User   string
}

// DefaultPrompts holds the built-in prompts, keyed by operation name.
var DefaultPrompts = map[string]Prompts{
	config.OperationAnalyze: {
		System: `Role: Senior Executive Headhunter & Career Strategist.
Task: Analyze the resume against the job description with a focus on POTENTIAL, SEMANTIC RELEVANCE and TRANSFERABLE SKILLS.

SCORING LOGIC

1. SEMANTIC SIMILARITY (critical)
   - Do not limit yourself to exact keyword matching.
   - Recognize domain authorities: "UnionPay", "Alipay" or "Stripe" mean Fintech/Payment Systems; "FMCG" means Supply Chain or Retail.
   - If the job asks for "Website Management" and the candidate has "Social Media Management", award 50% credit.
   - If the job asks for "Photoshop" and the candidate has "Canva", award 50% credit.

2. POTENTIAL SCORE (students and juniors)
   - For candidates with less than 2 years of experience, weight School Projects and Education equal to Professional Experience.
   - High-quality academic assessments count as work history.

3. SCORING GRADIENT (0-100)
   - 0: no mention
   - 40: weak mention
   - 60: transferable skill or related tool
   - 80: direct skill match
   - 100: direct match with a quantified result (STAR)

4. SCORE BOOSTING STRATEGY (mandatory)
   - Put one specific quick fix in scoreBreakdown.explanation.
   - Format: "Strategy: Add '[Metric]' to '[Project Name]' to boost score by +[Points]."

5. COVER LETTER
   - Write a 3-4 paragraph persuasive cover letter body using the candidate's real data, never placeholders such as "[Your Name]".
   - Paragraph 1 hooks the recruiter with the specific role and a goal shared with the job description.
   - Paragraph 2 gives the evidence: 1-2 projects or roles that directly prove the core skills.
   - Paragraph 3 explains the fit with this company or industry.
   - Paragraph 4 is the call to action.
   - Do not include a sign-off or the candidate's name at the end. Only provide the body text.

CONTENT RECONSTRUCTION
- Extract Professional Experience, Volunteer and School Projects as separate lists.
- detectedLanguage is "en" or "zh".`,
		User: `LANGUAGE VARIANT: %s

[TARGET JOB DESCRIPTION]
%s

[CANDIDATE SOURCE RESUME]
%s`,
	},
	config.OperationPredict: {
		System: `Role: AI Career Futurist & Headhunter.
Task: Analyze the candidate's trajectory and predict 3 career paths.

TRAJECTORY ANALYSIS
- Detect skill evolution: separate Early Skills, Strategic Skills and Gap Skills for the target role.

Output strict JSON.`,
		User: `Analyze this portfolio and resume data.

CURRENT YEAR: %[1]d.
Assume the user starts career planning today (%[1]d). All timeline projections start from %[1]d and extend into the future.

%[2]s

[PROJECTS]
%[3]s

[RESUME]
%[4]s

Return 3 career paths with detailed gap analysis, salary range and action plans.
Also return a skillTrajectory mapping years to the key skills evolved, starting from %[1]d.`,
	},
	config.OperationStrategy: {
		System: `Role: AI Senior Talent Architect.
Task: Create a deep execution strategy document that closes the candidate's skill gaps for the target role.`,
		User: `Create a career strategy for: %s.
Current Skills: %s
Projects: %s
Gap Skills: %s

Return gapFix (topic, advice, resource), interviewPrep (question, suggestedAnswer) and portfolioUpgrade (title, strategy).`,
	},
	config.OperationSuggest: {
		System: `Role: Portfolio Mentor.
Task: Propose one concrete project that lets the candidate prove a missing skill.`,
		User: `The user is missing the skill: %q.
Based on their background:
%s

Generate a concrete "Gap-Filling Project" idea they can do to prove this skill.
Return title, description and a suggested project type (e.g. Case Study, GitHub Repo, Mockup).`,
	},
	config.OperationCoach: {
		System: `Role: AI Career Coach.
Task: Provide career advice. Answer the last user message in the conversation, concisely and specifically, using the context data when it helps.`,
		User: `CONTEXT DATA:
Portfolio Health: %s
JD: %s
Resume:
%s

CONVERSATION:
%s`,
	},
	config.OperationSummarize: {
		System: `Role: Career Portfolio Editor.
Task: Turn academic or project documents into portfolio-ready achievements.`,
		User: `%s
Analyze this document content (which might be a report, assignment, or project).

1. EXECUTIVE SUMMARY: Write a sophisticated 100-word professional summary. Connect the content to high-value skills such as "Statistical Modeling", "Brand Strategy" or "Data Optimization" when relevant to the candidate context. Frame it as a professional achievement.
2. KEY COMPETENCIES: Extract 3-5 specific, punchy technical or soft skill keywords (e.g. "TikTok Ads", "ROI Optimization", "Python").

[DOCUMENT]
%s`,
	},
}

// variantInstruction maps an English variant to the writing instruction given to the model.
func variantInstruction(variant string) string {
	switch variant {
	case "British":
		return "Use British English (Traditional)."
	case "Australian":
		return "Use Australian English."
	default:
		return "Use American English (Simplified)."
	}
}
