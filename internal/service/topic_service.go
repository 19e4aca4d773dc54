package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/derece-app/derece-api/internal/models"
	appErrors "github.com/derece-app/derece-api/pkg/errors"
)

type topicStore interface {
	FindBySubjectTitle(ctx context.Context, subject, title string) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
}

type enrichmentStore interface {
	FindTeacherByName(ctx context.Context, userID, name string) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
	FindResourceByTitle(ctx context.Context, userID, title string) (*models.Resource, error)
	CreateResource(ctx context.Context, resource *models.Resource) error
}

// TopicService normalizes free-text subject/topic phrases into canonical
// curriculum entries, creating them on demand. The catalog is
// open-ended: whatever phrase the assistant extracts becomes a topic.
type TopicService struct {
	topics topicStore
	enrich enrichmentStore
	logger *zap.Logger
}

// NewTopicService constructs the service.
func NewTopicService(topics topicStore, enrich enrichmentStore, logger *zap.Logger) *TopicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{topics: topics, enrich: enrich, logger: logger}
}

const autoCreatedDescription = "Asistan tarafından oluşturuldu."

var slugStrip = regexp.MustCompile(`[^a-z0-9_]`)

// ParseTrack detects the exam-track prefix of a subject phrase and
// strips it. "İngilizce" anywhere implies YDT without stripping; the
// default track is TYT.
func ParseTrack(subject string) (models.TopicCategory, string) {
	trimmed := strings.TrimSpace(subject)
	lower := lowerTR(trimmed)

	switch {
	case strings.HasPrefix(lower, "ayt"):
		return models.CategoryAYT, strings.TrimSpace(trimmed[len("AYT"):])
	case strings.HasPrefix(lower, "tyt"):
		return models.CategoryTYT, strings.TrimSpace(trimmed[len("TYT"):])
	case strings.HasPrefix(lower, "ydt"):
		return models.CategoryYDT, strings.TrimSpace(trimmed[len("YDT"):])
	case strings.Contains(lower, "ingilizce"), strings.Contains(lower, "i̇ngilizce"):
		return models.CategoryYDT, trimmed
	default:
		return models.CategoryTYT, trimmed
	}
}

// Slugify builds the canonical slug for a topic: lower-cased, spaces to
// underscores, every other non-alphanumeric rune stripped.
func Slugify(category models.TopicCategory, subject, title string) string {
	joined := strings.ToLower(string(category)) + "_" + lowerTR(subject) + "_" + lowerTR(title)
	joined = strings.ReplaceAll(joined, " ", "_")
	return slugStrip.ReplaceAllString(joined, "")
}

// NormalizeTopic resolves a free-text (subject, topic) pair to a
// canonical topic, inserting one with zero effort hours when no
// case-insensitive match exists. The second return reports whether a
// row was created.
func (s *TopicService) NormalizeTopic(ctx context.Context, subjectFreeText, topicFreeText string) (*models.Topic, bool, error) {
	category, cleanSubject := ParseTrack(subjectFreeText)

	existing, err := s.topics.FindBySubjectTitle(ctx, cleanSubject, topicFreeText)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "topic lookup failed")
	}
	if existing != nil {
		return existing, false, nil
	}

	topic := &models.Topic{
		Category:    category,
		Subject:     cleanSubject,
		Title:       topicFreeText,
		Slug:        Slugify(category, cleanSubject, topicFreeText),
		Description: autoCreatedDescription,
		OrderIndex:  999,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "topic creation failed")
	}

	s.logger.Info("topic auto-created",
		zap.String("slug", topic.Slug),
		zap.String("category", string(category)),
	)
	return topic, true, nil
}

// EnsureTeacher finds or creates a user-scoped teacher annotation.
func (s *TopicService) EnsureTeacher(ctx context.Context, userID, name string) (*models.Teacher, bool, error) {
	existing, err := s.enrich.FindTeacherByName(ctx, userID, name)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "teacher lookup failed")
	}
	if existing != nil {
		return existing, false, nil
	}

	teacher := &models.Teacher{UserID: userID, Name: strings.TrimSpace(name)}
	if err := s.enrich.CreateTeacher(ctx, teacher); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "teacher creation failed")
	}
	return teacher, true, nil
}

// EnsureResource finds or creates a user-scoped resource annotation.
func (s *TopicService) EnsureResource(ctx context.Context, userID, title string) (*models.Resource, bool, error) {
	existing, err := s.enrich.FindResourceByTitle(ctx, userID, title)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "resource lookup failed")
	}
	if existing != nil {
		return existing, false, nil
	}

	resource := &models.Resource{UserID: userID, Title: strings.TrimSpace(title)}
	if err := s.enrich.CreateResource(ctx, resource); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "resource creation failed")
	}
	return resource, true, nil
}
