package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type QuestCompletionRepo interface {
	CompletedIDs(dbc dbctx.Context, userID uuid.UUID) (map[string]bool, error)
	// Insert reports false when the quest was already completed.
	Insert(dbc dbctx.Context, q *tracker.QuestCompletion) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*tracker.QuestCompletion, error)
}

type questCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestCompletionRepo(db *gorm.DB, baseLog *logger.Logger) QuestCompletionRepo {
	return &questCompletionRepo{db: db, log: baseLog.With("repo", "QuestCompletionRepo")}
}

func (r *questCompletionRepo) CompletedIDs(dbc dbctx.Context, userID uuid.UUID) (map[string]bool, error) {
	var ids []string
	if err := dbc.DB(r.db).
		Model(&tracker.QuestCompletion{}).
		Where("user_id = ?", userID).
		Pluck("quest_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *questCompletionRepo) Insert(dbc dbctx.Context, q *tracker.QuestCompletion) (bool, error) {
	if err := tracker.ValidateQuestCompletion(q); err != nil {
		return false, err
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quest_id"}},
			DoNothing: true,
		}).
		Create(q)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *questCompletionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*tracker.QuestCompletion, error) {
	var out []*tracker.QuestCompletion
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("completed_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
