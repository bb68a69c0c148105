package models

type ExamType string

const (
	ExamMixed          ExamType = "Mixed"
	ExamMultipleChoice ExamType = "Multiple Choice"
	ExamTrueFalse      ExamType = "True/False"
	ExamFillInBlank    ExamType = "Fill-in-the-Blank"
	ExamMatching       ExamType = "Matching"
	ExamShortAnswer    ExamType = "Short Answer"
	ExamEssay          ExamType = "Essay"
)

var AllExamTypes = []ExamType{
	ExamMixed,
	ExamMultipleChoice,
	ExamTrueFalse,
	ExamFillInBlank,
	ExamMatching,
	ExamShortAnswer,
	ExamEssay,
}

func (t ExamType) IsValid() bool {
	for _, v := range AllExamTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

var AllDifficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

func (d Difficulty) IsValid() bool {
	for _, v := range AllDifficulties {
		if d == v {
			return true
		}
	}
	return false
}

// TimeIntensity is a named tier controlling the per-question time budget in
// timed exams.
type TimeIntensity string

const (
	IntensityRelaxed     TimeIntensity = "Relaxed"
	IntensityModerate    TimeIntensity = "Moderate"
	IntensityChallenging TimeIntensity = "Challenging"
)

var AllIntensities = []TimeIntensity{
	IntensityRelaxed,
	IntensityModerate,
	IntensityChallenging,
}

func (i TimeIntensity) IsValid() bool {
	for _, v := range AllIntensities {
		if i == v {
			return true
		}
	}
	return false
}

// PerQuestionSeconds returns the time budget for a single question.
func (i TimeIntensity) PerQuestionSeconds() int {
	switch i {
	case IntensityRelaxed:
		return 180
	case IntensityModerate:
		return 90
	case IntensityChallenging:
		return 45
	default:
		return 90
	}
}

// ExamConfig is chosen by the user before a timed exam starts and never
// mutated afterwards.
type ExamConfig struct {
	Type         ExamType      `json:"type" validate:"required,exam_type"`
	Difficulty   Difficulty    `json:"difficulty" validate:"required,difficulty_level"`
	Intensity    TimeIntensity `json:"intensity" validate:"required,time_intensity"`
	NumQuestions int           `json:"numQuestions" validate:"required,min=1,max=50"`
}

// PracticeConfig configures an untimed practice quiz over a topic and
// question-type selection.
type PracticeConfig struct {
	Topics        []string       `json:"topics" validate:"required,min=1,dive,required"`
	QuestionTypes []QuestionType `json:"questionTypes" validate:"required,min=1,dive,question_type"`
	Difficulty    Difficulty     `json:"difficulty" validate:"required,difficulty_level"`
	NumQuestions  int            `json:"numQuestions" validate:"required,min=1,max=50"`
}

// Material is an uploaded course file the generator extracts topics from.
type Material struct {
	Name     string `json:"name" validate:"required"`
	Content  string `json:"content" validate:"required"` // base64
	MimeType string `json:"mimeType" validate:"required"`
}
