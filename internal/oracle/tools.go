package oracle

import (
	"github.com/google/generative-ai-go/genai"

	"github.com/derece-app/derece-api/internal/dto"
)

// scheduleTools declares the three schedule-mutation functions the
// assistant model may call. Names and parameter spellings are the wire
// contract with dto.ParseIntent.
func scheduleTools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        dto.ToolAddSession,
					Description: "Adds a study session to the user's weekly schedule. Use this when the user asks to add a study plan, lesson, or topic to a specific day and time range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"day": {
								Type:        genai.TypeString,
								Description: "The day of the week (e.g., Pazartesi, Salı, Bugün, Yarın, Haftaya Çarşamba).",
							},
							"startTime": {
								Type:        genai.TypeString,
								Description: "Starting time in HH:MM format (e.g., '07:00'). Use 24-hour format.",
							},
							"endTime": {
								Type:        genai.TypeString,
								Description: "Ending time in HH:MM format (e.g., '08:00'). Use 24-hour format.",
							},
							"subject": {
								Type:        genai.TypeString,
								Description: "The main subject name (e.g., 'TYT Matematik', 'AYT Fizik', 'Geometri', 'Türkçe'). MUST be a valid YKS subject.",
							},
							"topicName": {
								Type:        genai.TypeString,
								Description: "The specific topic name (e.g., 'Türev', 'Optik', 'Fiiller', 'Kurtuluş Savaşı').",
							},
							"activityType": {
								Type:        genai.TypeString,
								Description: "Type: 'study' (default), 'test' (soru çözümü), 'review' (tekrar).",
							},
							"teacher": {
								Type:        genai.TypeString,
								Description: "Optional teacher name the user mentioned (e.g., 'Ahmet Hoca').",
							},
							"resource": {
								Type:        genai.TypeString,
								Description: "Optional study resource the user mentioned (e.g., '345 TYT Matematik').",
							},
						},
						Required: []string{"day", "startTime", "endTime", "subject", "topicName"},
					},
				},
				{
					Name:        dto.ToolDeleteSession,
					Description: "Deletes a specific study session from the schedule.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"day": {
								Type:        genai.TypeString,
								Description: "The day of the week.",
							},
							"timeHint": {
								Type:        genai.TypeString,
								Description: "Optional time reference (e.g., 'sabah', '14:00').",
							},
							"topicHint": {
								Type:        genai.TypeString,
								Description: "Optional subject/topic name to identify session (e.g., 'Matematik', 'Fizik').",
							},
							"startRange": {
								Type:        genai.TypeString,
								Description: "Optional range start in HH:MM format; deletes every session overlapping the range.",
							},
							"endRange": {
								Type:        genai.TypeString,
								Description: "Optional range end in HH:MM format; required when startRange is given.",
							},
						},
						Required: []string{"day"},
					},
				},
				{
					Name:        dto.ToolMoveSession,
					Description: "Moves or postpones an existing study session to a new day and time range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"fromDay": {
								Type:        genai.TypeString,
								Description: "The day the session is currently on.",
							},
							"topicHint": {
								Type:        genai.TypeString,
								Description: "Optional subject/topic name identifying the session to move.",
							},
							"fromTime": {
								Type:        genai.TypeString,
								Description: "Optional current start time of the session in HH:MM format.",
							},
							"toDay": {
								Type:        genai.TypeString,
								Description: "The target day.",
							},
							"toStartTime": {
								Type:        genai.TypeString,
								Description: "Target starting time in HH:MM format.",
							},
							"toEndTime": {
								Type:        genai.TypeString,
								Description: "Target ending time in HH:MM format.",
							},
						},
						Required: []string{"fromDay", "toDay", "toStartTime", "toEndTime"},
					},
				},
			},
		},
	}
}
