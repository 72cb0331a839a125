package service

import (
	"fmt"
	"strings"
)

// mentorKnowledgeBase is the career guidance corpus the mentor answers from.
// Plain text is enough at this size; no retrieval index is involved.
const mentorKnowledgeBase = `
## Frontend Developer
Recommended stack: HTML, CSS, JavaScript, React, Vue, or Angular
Best for: UI-focused roles, startups, design-heavy companies
Skills needed: Responsive design, state management, CSS frameworks
Career path: Junior -> Mid -> Senior -> Lead Frontend -> Engineering Manager

## Backend Developer
Recommended stack: Node.js, Python (Django/Flask), Java Spring, or Go
Best for: APIs, databases, scalable systems, enterprise companies
Skills needed: REST APIs, databases, authentication, server optimization
Career path: Junior -> Mid -> Senior -> Backend Architect -> CTO

## Full Stack Developer
Recommended stack: MERN (MongoDB, Express, React, Node) or MEAN stack
Best for: Startups, small teams, versatile roles
Skills needed: Both frontend and backend skills
Career path: Full Stack -> Senior Full Stack -> Tech Lead

## Confused?
If you enjoy design and user experience -> Frontend
If you enjoy logic and system architecture -> Backend
If you want flexibility -> Full Stack

## Interview Guidance
- Practice coding on platforms like LeetCode, HackerRank
- Master data structures: Arrays, Linked Lists, Trees, Graphs
- Learn algorithms: Sorting, Searching, Dynamic Programming
- Prepare behavioral questions: Tell me about yourself, strengths/weaknesses
- Mock interviews are crucial for confidence

## Career Roadmap
1. Learn fundamentals (HTML, CSS, JS)
2. Pick a framework (React, Vue, Angular)
3. Build projects (portfolio is key)
4. Learn backend basics (if full stack)
5. Master Git and deployment
6. Apply for jobs and keep learning
`

func mentorPrompt(message string) string {
	var b strings.Builder
	b.WriteString(`You are an experienced career mentor for a mock interview platform called HireReady.

Your role:
- Guide students through career decisions with empathy and clarity
- Ask clarifying questions when needed (experience level, interests, goals)
- Provide actionable, step-by-step advice
- Be encouraging and supportive
- Share practical examples and real-world insights

Important guidelines:
- If the question is vague, ask clarifying questions before giving advice
- Don't assume the user's skill level or background
- Suggest multiple paths when appropriate
- Focus on practical, achievable steps
- Reference specific technologies and resources when relevant

Knowledge base:
`)
	b.WriteString(mentorKnowledgeBase)
	fmt.Fprintf(&b, "\nUser's question:\n%s\n\nProvide a helpful, mentor-like response:", message)
	return b.String()
}
