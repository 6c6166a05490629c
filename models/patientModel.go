package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient model. The primary key is the generated medical record number
// (MRN-<year>-<sequence>), assigned by the patient repository at creation.
type Patient struct {
	ID          string       `gorm:"primaryKey;column:id" json:"id"`
	FullName    string       `gorm:"column:full_name;not null;index" json:"full_name"`
	DateOfBirth string       `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      string       `gorm:"column:gender;check:gender IN ('M', 'F', 'Other');not null" json:"gender"`
	Email       string       `gorm:"column:email;index" json:"email"`
	Phone       string       `gorm:"column:phone;index" json:"phone"`
	Address     string       `gorm:"column:address" json:"address"`
	UserID      *int64       `gorm:"column:user_id;index" json:"user_id"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Assessments []Assessment `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// QuestionGroup model
type QuestionGroup struct {
	ID        uint       `gorm:"primaryKey;column:id" json:"id"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	TitleAr   string     `gorm:"column:title_ar" json:"title_ar"`
	SortOrder int        `gorm:"column:sort_order;not null" json:"sort_order"`
	Questions []Question `gorm:"foreignKey:GroupID;references:ID" json:"questions"`
}

func (QuestionGroup) TableName() string {
	return "question_group"
}

// Question model. Text and declared answer type drive how saved responses
// are typed; ScoreWeight feeds the reviewer's scoring sheet.
type Question struct {
	ID          uint          `gorm:"primaryKey;column:id" json:"id"`
	GroupID     uint          `gorm:"column:group_id;not null;index" json:"group_id"`
	Text        string        `gorm:"column:text;not null" json:"text"`
	TextAr      string        `gorm:"column:text_ar" json:"text_ar"`
	Type        string        `gorm:"column:type;check:type IN ('MULTIPLE_CHOICE', 'BOOLEAN', 'NUMBER', 'DATE', 'SCALE', 'TEXT');not null" json:"type"`
	Options     string        `gorm:"column:options;type:text" json:"options"`
	ScoreWeight float64       `gorm:"column:score_weight" json:"score_weight"`
	SortOrder   int           `gorm:"column:sort_order;not null" json:"sort_order"`
	Group       QuestionGroup `gorm:"foreignKey:GroupID;references:ID" json:"-"`
}

func (Question) TableName() string {
	return "question"
}

// IDSequence backs per-year number generation (MRN, assessment numbers).
// One row per (scope, year); incremented atomically with an upsert.
type IDSequence struct {
	Scope string `gorm:"primaryKey;column:scope" json:"scope"`
	Year  int    `gorm:"primaryKey;column:year" json:"year"`
	Value int64  `gorm:"column:value;not null" json:"value"`
}

func (IDSequence) TableName() string {
	return "id_sequence"
}

// SeedQuestionCatalog inserts the intake question catalog into the database.
func SeedQuestionCatalog(db *gorm.DB) error {
	groups := []QuestionGroup{
		{ID: 1, Title: "Orientation", TitleAr: "التوجه", SortOrder: 1},
		{ID: 2, Title: "Memory & Recall", TitleAr: "الذاكرة والاستدعاء", SortOrder: 2},
		{ID: 3, Title: "Daily Living", TitleAr: "الأنشطة اليومية", SortOrder: 3},
	}
	questions := []Question{
		{ID: 1, GroupID: 1, Text: "What is today's date?", TextAr: "ما هو تاريخ اليوم؟", Type: "DATE", ScoreWeight: 1, SortOrder: 1},
		{ID: 2, GroupID: 1, Text: "Does the subject know where they are right now?", TextAr: "هل يعرف الشخص مكانه الحالي؟", Type: "BOOLEAN", ScoreWeight: 1, SortOrder: 2},
		{ID: 3, GroupID: 2, Text: "How many of the three named objects were recalled?", TextAr: "كم عدد الأشياء الثلاثة المذكورة التي تم تذكرها؟", Type: "NUMBER", ScoreWeight: 2, SortOrder: 1},
		{ID: 4, GroupID: 2, Text: "Which of the following words were remembered?", TextAr: "أي من الكلمات التالية تم تذكرها؟", Type: "MULTIPLE_CHOICE", Options: `["apple","table","penny","river"]`, ScoreWeight: 2, SortOrder: 2},
		{ID: 5, GroupID: 3, Text: "Rate the subject's ability to manage daily tasks without help.", TextAr: "قيّم قدرة الشخص على إدارة المهام اليومية دون مساعدة.", Type: "SCALE", Options: `{"min":1,"max":5}`, ScoreWeight: 3, SortOrder: 1},
		{ID: 6, GroupID: 3, Text: "Describe any recent changes in daily routine.", TextAr: "صف أي تغييرات حديثة في الروتين اليومي.", Type: "TEXT", ScoreWeight: 1, SortOrder: 2},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, group := range groups {
			if err := tx.FirstOrCreate(&group, QuestionGroup{ID: group.ID}).Error; err != nil {
				return err
			}
		}
		for _, question := range questions {
			if err := tx.FirstOrCreate(&question, Question{ID: question.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
