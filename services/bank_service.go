package services

import (
	"errors"

	"quizparty/game"
	"quizparty/models"

	"gorm.io/gorm"
)

// BankService persists the question bank. Rooms never touch the
// database: the bank is loaded once into memory and decks are drawn from
// that.
type BankService struct {
	db *gorm.DB
}

func NewBankService(db *gorm.DB) *BankService {
	return &BankService{db: db}
}

type CreateQuestionRequest struct {
	Prompt  string                `json:"prompt" binding:"required"`
	Answers []CreateAnswerRequest `json:"answers" binding:"required,min=2,dive"`
}

type CreateAnswerRequest struct {
	Text   string `json:"text" binding:"required"`
	Points int    `json:"points" binding:"required,min=1"`
}

func (s *BankService) CreateQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	seen := make(map[int]bool, len(req.Answers))
	for _, a := range req.Answers {
		if seen[a.Points] {
			return nil, errors.New("point values must be distinct within a question")
		}
		seen[a.Points] = true
	}

	question := models.Question{Prompt: req.Prompt}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, a := range req.Answers {
			answer := models.Answer{
				QuestionID: question.ID,
				Text:       a.Text,
				Points:     a.Points,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
			question.Answers = append(question.Answers, answer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

func (s *BankService) ListQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("points ASC")
		}).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (s *BankService) DeleteQuestion(id uint) error {
	result := s.db.Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("question not found")
	}
	return nil
}

// LoadBank builds the in-memory bank from the stored questions.
func (s *BankService) LoadBank() (*game.Bank, error) {
	records, err := s.ListQuestions()
	if err != nil {
		return nil, err
	}

	questions := make([]game.Question, 0, len(records))
	for _, rec := range records {
		q := game.Question{Prompt: rec.Prompt}
		for _, a := range rec.Answers {
			q.Answers = append(q.Answers, game.Answer{Text: a.Text, Points: a.Points})
		}
		questions = append(questions, q)
	}

	return game.NewBank(questions), nil
}
