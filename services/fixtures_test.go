package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"conference-review-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type sentNotification struct {
	UserID  uint
	Kind    string
	Message string
	Data    map[string]interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID uint, kind, message string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Kind: kind, Message: message, Data: data})
}

func (r *recordingNotifier) to(userID uint) []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentNotification
	for _, n := range r.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "review.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// reviewFixture is an event with an organizer, an author, three committee members,
// an outsider and a super-admin.
type reviewFixture struct {
	db       *gorm.DB
	now      time.Time
	notifier *recordingNotifier
	deps     Dependencies

	event      models.Event
	organizer  models.User
	author     models.User
	reviewers  []models.User
	outsider   models.User
	superAdmin models.User
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	db := newTestDB(t)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	roles := map[string]uint{}
	for _, name := range []string{
		models.RoleSuperAdmin,
		models.RoleOrganizer,
		models.RoleAuthor,
		models.RoleCommitteeMember,
		models.RoleParticipant,
	} {
		role := models.Role{Role: name, CreatedAt: now}
		require.NoError(t, db.Create(&role).Error)
		roles[name] = role.RoleID
	}

	f := &reviewFixture{db: db, now: now, notifier: &recordingNotifier{}}
	f.organizer = createUser(t, db, "Olivia Organizer", "olivia@example.org", roles[models.RoleOrganizer])
	f.author = createUser(t, db, "Arthur Author", "arthur@example.org", roles[models.RoleAuthor])
	for _, name := range []string{"Rita", "Ravi", "Rosa"} {
		f.reviewers = append(f.reviewers, createUser(t, db, name+" Reviewer", name+"@example.org", roles[models.RoleCommitteeMember]))
	}
	f.outsider = createUser(t, db, "Oscar Outsider", "oscar@example.org", roles[models.RoleParticipant])
	f.superAdmin = createUser(t, db, "Sam Admin", "sam@example.org", roles[models.RoleSuperAdmin])

	deadline := now.Add(7 * 24 * time.Hour)
	f.event = models.Event{
		Title:              "International Conference on Applied Sciences",
		SubmissionDeadline: &deadline,
		CreatedBy:          f.organizer.UserID,
		Status:             "published",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&f.event).Error)

	for _, r := range f.reviewers {
		addCommitteeMember(t, db, f.event.EventID, r.UserID)
	}

	f.deps = Dependencies{
		DB:       db,
		Notifier: f.notifier,
		Files:    NewLocalFileStore(t.TempDir()),
		Now:      func() time.Time { return now },
	}
	return f
}

func createUser(t *testing.T, db *gorm.DB, name, email string, roleID uint) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, RoleID: roleID}
	require.NoError(t, db.Omit(clause.Associations).Create(&user).Error)
	return user
}

func addCommitteeMember(t *testing.T, db *gorm.DB, eventID, userID uint) {
	t.Helper()
	member := models.Committee{EventID: eventID, UserID: userID, RoleInCommittee: "reviewer"}
	require.NoError(t, db.Omit(clause.Associations).Create(&member).Error)
}

func (f *reviewFixture) submissions() *SubmissionService { return NewSubmissionService(f.deps) }
func (f *reviewFixture) assignments() *AssignmentService { return NewAssignmentService(f.deps) }
func (f *reviewFixture) evaluations() *EvaluationService { return NewEvaluationService(f.deps) }
func (f *reviewFixture) committees() *CommitteeService   { return NewCommitteeService(f.deps) }
func (f *reviewFixture) inbox() *NotificationService     { return NewNotificationService(f.deps) }

func (f *reviewFixture) submissionInput() SubmissionInput {
	return SubmissionInput{
		EventID:  f.event.EventID,
		Title:    "Soil moisture forecasting with sparse sensors",
		Abstract: "We study forecasting of soil moisture from a sparse sensor network.",
		Keywords: []string{"soil", "forecasting"},
		Type:     models.SubmissionTypeOral,
	}
}

func (f *reviewFixture) createSubmission(t *testing.T) *models.Submission {
	t.Helper()
	submission, err := f.submissions().Create(context.Background(), f.author.UserID, f.submissionInput())
	require.NoError(t, err)
	return submission
}

func (f *reviewFixture) evaluate(t *testing.T, submissionID uint, reviewer models.User, score float64, recommendation string) *models.Evaluation {
	t.Helper()
	evaluation, err := f.evaluations().Evaluate(context.Background(), submissionID, reviewer.UserID, EvaluationInput{
		Score:          floatPtr(score),
		Recommendation: recommendation,
	})
	require.NoError(t, err)
	return evaluation
}

func (f *reviewFixture) reloadSubmission(t *testing.T, id uint) models.Submission {
	t.Helper()
	var s models.Submission
	require.NoError(t, f.db.First(&s, "submission_id = ?", id).Error)
	return s
}

func (f *reviewFixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
