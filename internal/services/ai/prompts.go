package ai

import (
	"fmt"
	"time"

	"github.com/ecoprohq/ecopro/internal/models"
)

const systemBase = `You are a senior strategy consultant specializing in business management, project management and business intelligence.
You work inside the EcoPro platform, a PM and BI system for founders, startups and SMBs.
Be concise, pragmatic and action oriented.
Use specific numbers when available. Give concrete recommendations, never generic ones.
If the data is insufficient for an analysis, say so clearly.`

const insightFormat = `OUTPUT FORMAT (JSON):
{
  "insights": [
    {
      "title": "Short insight title",
      "description": "Detailed analysis with specific numbers",
      "severity": "info|warning|critical",
      "recommendation": "Concrete recommended action",
      "relatedEntityId": "id of the related entity",
      "relatedEntityType": "%s"
    }
  ],
  "summary": "Executive summary in 2-3 sentences"
}`

var projectSystem = systemBase + `

You are the EcoPro Project Agent. Your role is to analyze project and task state to:
- Identify delays, bottlenecks and timeline risks
- Analyze task dependencies and the critical path
- Suggest reprioritization and resource allocation
- Evaluate team performance from estimated vs actual hours
- Forecast realistic completion dates from the current pace

` + fmt.Sprintf(insightFormat, "project|task")

var businessSystem = systemBase + `

You are the EcoPro Business Agent. Your role is to analyze economic and operational performance across activities to:
- Evaluate key KPIs: revenue, margins, CAC, LTV, ROI, burn rate
- Identify growth or decline trends
- Compare performance across periods and activities
- Analyze cost structure and per-project margins
- Spot financial risks (customer concentration, negative cash flow, high burn rate)
- Suggest optimizations to maximize profitability

` + fmt.Sprintf(insightFormat, "activity")

var marketSystem = systemBase + `

You are the EcoPro Market Agent. Your role is to analyze market context and marketing strategy to:
- Interpret market trends and competitive positioning
- Analyze marketing channel performance (CAC, conversion rate, per-channel ROI)
- Evaluate the conversion funnel and flag critical drop-offs
- Compare pricing against market benchmarks
- Identify growth opportunities and competitive threats
- Suggest market penetration and growth strategies

` + fmt.Sprintf(insightFormat, "activity")

var chatSystem = systemBase + `

You are the EcoPro assistant. The user can ask about any aspect of their ventures, projects, tasks, finances and market.

You receive platform data as context. Use it to give specific, personalized answers.

Rules:
- Answer conversationally but professionally
- Cite concrete numbers from the platform data
- If the user asks for something not in the data, say so clearly
- Always propose a concrete action or next step
- If you spot a critical problem in the data, raise it proactively
- You may reference PM, business and marketing best practice`

func projectUserPrompt(data string, now time.Time) string {
	return fmt.Sprintf(`Analyze the current state of projects and tasks.

PROJECT AND TASK DATA:
%s

CURRENT DATE: %s

Identify:
1. Tasks at risk of delay (deadline vs progress)
2. Projects with potential budget overrun (spent vs budget)
3. Bottlenecks in dependencies
4. Blocked or over-allocated tasks
5. Milestones at risk

Produce 2 to 5 insights ordered by severity (critical > warning > info).`, data, now.Format("2006-01-02"))
}

func businessUserPrompt(data string, now time.Time) string {
	return fmt.Sprintf(`Analyze the economic performance of the activities.

ACTIVITY, KPI AND BI METRIC DATA:
%s

CURRENT DATE: %s

Analyze:
1. Revenue and profitability trends (period over period)
2. Margin health per activity
3. CAC/LTV ratio and acquisition sustainability
4. Burn rate vs remaining runway
5. Revenue and customer concentration risk
6. Cash flow and liquidity
7. Overall and per-activity ROI

Produce 2 to 5 insights ordered by severity.`, data, now.Format("2006-01-02"))
}

func marketUserPrompt(data string, now time.Time) string {
	return fmt.Sprintf(`Analyze the market context and marketing strategy.

MARKET, COMPETITOR AND MARKETING DATA:
%s

CURRENT DATE: %s

Analyze:
1. Competitive positioning (market share, differentiation)
2. Marketing channel performance (CAC, ROI, conversion per channel)
3. Funnel analysis: where are most users lost?
4. Pricing relative to benchmarks
5. Exploitable market trends
6. Competitive and regulatory risks
7. Short-term growth opportunities (quick wins)

Produce 2 to 5 insights ordered by potential impact.`, data, now.Format("2006-01-02"))
}

func chatUserPrompt(context, userMessage string) string {
	return fmt.Sprintf(`PLATFORM CONTEXT:
%s

USER QUESTION:
%s`, context, userMessage)
}

// systemPromptFor returns the system prompt for an agent task.
func systemPromptFor(task models.AgentTask) string {
	switch task {
	case models.AgentProject:
		return projectSystem
	case models.AgentBusiness:
		return businessSystem
	case models.AgentMarket:
		return marketSystem
	default:
		return chatSystem
	}
}
