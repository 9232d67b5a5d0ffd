package parser

// BuildSyllabusPrompt returns the extraction prompt for a syllabus text.
// The text is embedded as-is; callers truncate it first.
func BuildSyllabusPrompt(text string) string {
	return `You are a course syllabus data extraction assistant. Analyze the syllabus text below and extract the course details, every dated event, a task for each event, and the grading breakdown.

IMPORTANT INSTRUCTIONS:
- Keep dates exactly as they are written in the syllabus.
- "type" of an event must be one of: Exam, Assignment, Quiz, Reading, Lab, Presentation, Event.
- "priority" of a task must be one of: high, medium, low. Use "high" for exams and finals, "medium" for projects and assignments, "low" otherwise.
- Create exactly one task per event with the same title, the event date as "due", and the event type as "type".
- "weight" of a grading component is a percentage string such as "25%".
- If the course name is not stated use "Unknown Course". If the instructor is not stated use "Unknown Instructor". If credits are not stated use 3.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, just the raw JSON object in this shape:
{
  "course": {
    "name": "",
    "instructor": "",
    "credits": 0
  },
  "events": [
    {
      "title": "",
      "date": "",
      "type": "",
      "description": ""
    }
  ],
  "tasks": [
    {
      "title": "",
      "due": "",
      "priority": "",
      "course": "",
      "type": ""
    }
  ],
  "grading": {
    "components": [
      {
        "name": "",
        "weight": ""
      }
    ]
  }
}

Syllabus text:
` + text
}
