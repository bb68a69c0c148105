package ai

import (
	"fmt"
	"strings"

	"github.com/soma-study/exam-service/internal/models"
)

const topicsPrompt = `Analyze the following course materials and extract a concise list of key topics and concepts. Respond STRICTLY in the following JSON format: {"topics": ["topic1", "topic2", ...]}`

const questionsSchemaNote = `Respond STRICTLY with a JSON object of the form {"questions": [...]} where every question has the fields "question", "type", "topic" and, depending on the type, "options" plus "correctAnswer", "correctAnswers" or "matchingPairs". Do not include any extra text or markdown formatting outside of the JSON structure.`

var typeFormatInstructions = map[models.QuestionType]string{
	models.MultipleChoice: `A multiple-choice question with exactly 4 options. Indicate the single correct answer in "correctAnswer".`,
	models.TrueFalse:      `A statement that is either true or false. The "correctAnswer" must be either "True" or "False".`,
	models.FillInBlank:    `A sentence with one or more blanks represented by "___". Provide the correct words for the blanks in the "correctAnswers" array, in order.`,
	models.Matching:       `A set of matching pairs. Provide the list of prompts and corresponding answers in the "matchingPairs" field. The "question" field should be an instruction like "Match the terms to their definitions."`,
	models.ShortAnswer:    `A question requiring a concise answer, typically one or two sentences. Provide a model correct answer in "correctAnswer" for evaluation purposes.`,
	models.Essay:          `An open-ended question requiring a detailed, multi-paragraph response. Provide a comprehensive model answer in "correctAnswer" covering key points for evaluation.`,
}

func examFormatDetails(examType models.ExamType) string {
	if examType == models.ExamMixed {
		return `Generate a mix of question types including Multiple Choice, True/False, Fill-in-the-Blank, and Short Answer. Follow the specific formatting rules for each type as described. Ensure a good distribution of types.`
	}
	if instruction, ok := typeFormatInstructions[models.QuestionType(examType)]; ok {
		return fmt.Sprintf("Each question must follow this rule: %s", instruction)
	}
	return ""
}

func buildExamPrompt(cfg models.ExamConfig, topics []string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert curriculum designer. Based on the following key topics, create a high-quality exam.\n\n")
	sb.WriteString("Key Topics:\n")
	sb.WriteString(strings.Join(topics, ", "))
	sb.WriteString("\n\nExam Specifications:\n")
	fmt.Fprintf(&sb, "- Type: %s\n", cfg.Type)
	fmt.Fprintf(&sb, "- Difficulty: %s\n", cfg.Difficulty)
	fmt.Fprintf(&sb, "- Number of Questions: %d\n", cfg.NumQuestions)
	sb.WriteString("\nInstructions:\n")
	fmt.Fprintf(&sb, "- Generate exactly %d questions.\n", cfg.NumQuestions)
	sb.WriteString("- Ensure questions are relevant to the provided topics and match the specified difficulty level.\n")
	fmt.Fprintf(&sb, "- %s\n", examFormatDetails(cfg.Type))
	sb.WriteString("- For each question, identify the main 'topic' it covers from the key topics list and set its \"type\" field correctly.\n")
	fmt.Fprintf(&sb, "- %s\n", questionsSchemaNote)
	return sb.String()
}

func buildPracticePrompt(cfg models.PracticeConfig) string {
	typeNames := make([]string, 0, len(cfg.QuestionTypes))
	requested := make([]string, 0, len(cfg.QuestionTypes))
	for _, qt := range cfg.QuestionTypes {
		typeNames = append(typeNames, string(qt))
		requested = append(requested, fmt.Sprintf("  - %s: %s", qt, typeFormatInstructions[qt]))
	}

	var sb strings.Builder
	sb.WriteString("You are an expert curriculum designer. Create a practice quiz based on the following specifications.\n\n")
	sb.WriteString("Selected Topics:\n")
	sb.WriteString(strings.Join(cfg.Topics, ", "))
	sb.WriteString("\n\nQuiz Specifications:\n")
	fmt.Fprintf(&sb, "- Difficulty: %s\n", cfg.Difficulty)
	fmt.Fprintf(&sb, "- Number of Questions: %d\n", cfg.NumQuestions)
	fmt.Fprintf(&sb, "- Question Types to Include: %s\n", strings.Join(typeNames, ", "))
	sb.WriteString("\nInstructions:\n")
	fmt.Fprintf(&sb, "- Generate exactly %d questions.\n", cfg.NumQuestions)
	sb.WriteString("- Each question must be one of the selected types. Distribute the types as evenly as possible.\n")
	sb.WriteString("- Questions must be relevant to the selected topics and difficulty.\n")
	sb.WriteString("- For each question, follow these formatting rules:\n")
	sb.WriteString(strings.Join(requested, "\n"))
	sb.WriteString("\n- For each question, identify the main 'topic' it covers from the selected topics list.\n")
	fmt.Fprintf(&sb, "- %s\n", questionsSchemaNote)
	return sb.String()
}

func buildGradingPrompt(q models.Question, answer string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert AI grader. Evaluate a student's answer for a '%s' question.\n\n", q.Type)
	fmt.Fprintf(&sb, "Question: %s\n", q.Text)
	fmt.Fprintf(&sb, "Model Answer (for reference): %s\n", q.CorrectAnswer)
	fmt.Fprintf(&sb, "Student's Answer: %s\n\n", answer)
	sb.WriteString("TASK:\n")
	sb.WriteString("1. Provide a holistic score from 0 to 10.\n")
	sb.WriteString("2. Write concise, constructive overall feedback.\n")
	sb.WriteString("3. Provide a score breakdown based on the following criteria: Clarity, Accuracy, and Completeness. Each criterion is scored out of 10.\n")
	sb.WriteString("4. Identify specific, brief quotes from the student's answer that represent \"strengths\".\n")
	sb.WriteString("5. Identify specific, brief quotes from the student's answer that represent \"weaknesses\". If there are none, return an empty array.\n\n")
	sb.WriteString(`Respond STRICTLY with a JSON object of the form {"score": number, "feedback": string, "criteria": [{"criterion": string, "score": number, "feedback": string}], "strengths": [string], "weaknesses": [string]}.`)
	return sb.String()
}
