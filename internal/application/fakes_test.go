package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/lincup/internal/domain/catalog"
	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/infrastructure/kvstore"
	"github.com/oksasatya/lincup/internal/infrastructure/session"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/mailer"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

type fakeRecommender struct {
	recs  []entity.ClubRecommendation
	err   error
	block bool
	calls int
}

func (f *fakeRecommender) Recommend(ctx context.Context, _ entity.Profile, _ []entity.Club) ([]entity.ClubRecommendation, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.recs, f.err
}

type fakeIndex struct {
	indexed []catalog.Summary
	hits    []catalog.Suggestion
	err     error
}

func (f *fakeIndex) IndexCourse(_ context.Context, s catalog.Summary) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, s)
	return nil
}

func (f *fakeIndex) Suggest(_ context.Context, _ string, size int) ([]catalog.Suggestion, error) {
	if len(f.hits) > size {
		return f.hits[:size], nil
	}
	return f.hits, nil
}

type fakeUploader struct {
	path        string
	contentType string
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.path, f.contentType, f.body = objectPath, contentType, b
	return "https://storage.googleapis.com/test-bucket/" + objectPath, nil
}

var errBoom = errors.New("boom")

func newLogger(t *testing.T) (*logrus.Logger, *logrustest.Hook) {
	t.Helper()
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

type authFixture struct {
	svc      *AuthService
	store    *kvstore.MemoryStore
	users    *kvstore.UserRepository
	sessions *session.MemoryStore
	pub      *fakePublisher
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	logger, _ := newLogger(t)
	store := kvstore.NewMemoryStore()
	users := kvstore.NewUserRepository(store)
	sessions := session.NewMemoryStore()
	pub := &fakePublisher{}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	svc := NewAuthService(users, sessions, jwt, pub, MailSettings{Enabled: true, AppName: "Linc-Up", SupportURL: "https://support.example"}, logger)
	return authFixture{svc: svc, store: store, users: users, sessions: sessions, pub: pub}
}
