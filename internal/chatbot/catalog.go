package chatbot

import "github.com/sdc-club/backend/internal/models"

// Intents is the fixed, ordered intent catalog. Order matters: the first
// matching pattern wins.
var Intents = []models.Intent{
	{
		Patterns: []string{"how to register", "registration process", "join sdc", "how to join", "apply", "registration steps"},
		Responses: []models.ChatResponse{{
			Text: "The registration process for SDC is simple! Here are the steps:",
			Options: []string{
				"1. Fill out the registration form",
				"2. Submit your application",
				"3. Wait for application review",
				"4. Attend technical interview",
				"5. Complete SDC orientation",
			},
		}},
	},
	{
		Patterns: []string{"requirements", "eligibility", "who can join", "qualifications", "criteria"},
		Responses: []models.ChatResponse{{
			Text: "To join SDC, you need:",
			Options: []string{
				"• Be a student of MVJ College of Engineering",
				"• Have interest in software development",
				"• Basic programming knowledge",
				"• Willingness to learn and collaborate",
			},
		}},
	},
	{
		Patterns: []string{"activities", "what do you do", "club activities", "events", "programs"},
		Responses: []models.ChatResponse{{
			Text: "SDC offers various exciting activities:",
			Options: []string{
				"• Hands-on coding workshops",
				"• Technical project collaborations",
				"• Industry expert sessions",
				"• Hackathons and coding competitions",
				"• Peer learning programs",
			},
		}},
	},
	{
		Patterns: []string{"timeline", "how long", "when", "duration", "process time"},
		Responses: []models.ChatResponse{{
			Text: "Here's our typical registration timeline:",
			Options: []string{
				"• Application review: 3-5 days",
				"• Technical interview scheduling: Within 1 week",
				"• Interview process: 30-45 minutes",
				"• Final decision: Within 2 days",
				"• Orientation: Next scheduled session",
			},
		}},
	},
	{
		Patterns: []string{"benefits", "why join", "advantages", "what will i gain", "perks"},
		Responses: []models.ChatResponse{{
			Text: "Joining SDC comes with many benefits:",
			Options: []string{
				"• Hands-on experience with real projects",
				"• Networking with industry professionals",
				"• Enhanced technical skills",
				"• Certificate of membership",
				"• Priority access to workshops and events",
			},
		}},
	},
	{
		Patterns: []string{"contact", "help", "support", "reach out", "questions"},
		Responses: []models.ChatResponse{{
			Text: "Need more help? You can:",
			Options: []string{
				"• Email us at sdc@mvjce.edu.in",
				"• Visit the SDC office (Room 401, Block B)",
				"• Contact faculty coordinator",
				"• Check our FAQ section on the website",
			},
		}},
	},
	{
		Patterns: []string{"technical skills", "what should i know", "required skills", "programming knowledge"},
		Responses: []models.ChatResponse{{
			Text: "While we welcome all skill levels, these skills are helpful:",
			Options: []string{
				"• Basic programming concepts",
				"• Any programming language (Python/Java/JavaScript)",
				"• Understanding of web technologies",
				"• Version control basics (Git)",
				"• Problem-solving ability",
			},
		}},
	},
}

// DefaultResponses are used when no pattern matches.
var DefaultResponses = []models.ChatResponse{{
	Text: "I'm not sure I understand. Here are some things you can ask me about:",
	Options: []string{
		"• How to register for SDC",
		"• Requirements to join",
		"• Club activities",
		"• Registration timeline",
		"• Benefits of joining",
	},
}}

// Greeting opens every chat session.
var Greeting = models.ChatResponse{
	Text: "Hello! Welcome to MVJ College Software Development Club. How can I help you today?",
	Options: []string{
		"How to register?",
		"What are the requirements?",
		"Tell me about club activities",
		"What are the benefits?",
	},
}
