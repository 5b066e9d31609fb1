package analyses

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"internship-ats/internal/extract/extracttest"
	llmmocks "internship-ats/internal/llm/mocks"
	"internship-ats/internal/resumes"
	"internship-ats/internal/shared/storage/object"
)

var fixedNow = time.Date(2026, time.February, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))

type failingRepo struct{}

func (failingRepo) Insert(context.Context, resumes.Record) error {
	return errors.New("connection refused")
}

type recordingStore struct {
	namespace string
	fileName  string
	data      []byte
	err       error
}

func (s *recordingStore) Save(_ context.Context, namespace, fileName string, r io.Reader) (object.Object, error) {
	if s.err != nil {
		return object.Object{}, s.err
	}
	data, _ := io.ReadAll(r)
	s.namespace, s.fileName, s.data = namespace, fileName, data
	return object.Object{Key: namespace + "/" + fileName, SizeBytes: int64(len(data))}, nil
}

func (s *recordingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func newTestService(t *testing.T) (*Service, *llmmocks.MockClient, *resumes.MemoryRepo) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := llmmocks.NewMockClient(ctrl)
	repo := resumes.NewMemoryRepo()
	svc := &Service{
		LLM:        client,
		Repo:       repo,
		Collection: "intern",
		Now:        func() time.Time { return fixedNow },
	}
	return svc, client, repo
}

func TestEvaluateEmbedsInputsInPrompt(t *testing.T) {
	svc, client, _ := newTestService(t)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Go, Postgres, gin")
			assert.Contains(t, prompt, "Backend intern, Kubernetes")
			assert.Contains(t, prompt, "ATS_Match_Score")
			return `{"ATS_Match_Score":70,"Missing_Keywords":["Kubernetes"]}`, nil
		})

	eval, err := svc.Evaluate(context.Background(), "Go, Postgres, gin", "Backend intern, Kubernetes")

	require.NoError(t, err)
	assert.False(t, eval.Failed())
	m, ok := eval.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Kubernetes"}, m["Missing_Keywords"])
}

func TestEvaluateUnparseableOutputIsNotAnError(t *testing.T) {
	svc, client, _ := newTestService(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("Sorry, I cannot help.", nil)

	eval, err := svc.Evaluate(context.Background(), "resume", "jd")

	require.NoError(t, err)
	assert.True(t, eval.Failed())
	assert.Equal(t, "Sorry, I cannot help.", eval.RawText())
}

func TestEvaluateEmptyModelOutputDegrades(t *testing.T) {
	svc, client, _ := newTestService(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", nil)

	eval, err := svc.Evaluate(context.Background(), "resume", "jd")

	require.NoError(t, err)
	assert.True(t, eval.Failed())
	assert.Equal(t, "", eval.RawText())
}

func TestEvaluateModelFailurePropagates(t *testing.T) {
	svc, client, _ := newTestService(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", context.DeadlineExceeded)

	_, err := svc.Evaluate(context.Background(), "resume", "jd")

	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEvaluateWithoutClient(t *testing.T) {
	svc := &Service{}

	_, err := svc.Evaluate(context.Background(), "resume", "jd")

	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestEvaluateUnknownPromptVersionFallsBack(t *testing.T) {
	svc, client, _ := newTestService(t)
	svc.PromptVersion = "does_not_exist"
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "resume body")
			return `{}`, nil
		})

	_, err := svc.Evaluate(context.Background(), "resume body", "jd")

	require.NoError(t, err)
}

func TestAnalyzePersistsRecord(t *testing.T) {
	svc, client, repo := newTestService(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{"ATS_Match_Score":81}`, nil)
	data := extracttest.BuildPDF("Jane Doe Go developer")

	res, err := svc.Analyze(context.Background(), AnalyzeInput{
		FileName:       "jane.pdf",
		Data:           data,
		JobDescription: "Go intern",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.RecordID)
	assert.Contains(t, res.ResumeText, "Jane Doe")
	assert.False(t, res.Evaluation.Failed())

	records := repo.Records("intern")
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, res.RecordID, rec.ID)
	assert.Equal(t, "jane.pdf", rec.FileName)
	assert.Equal(t, res.ResumeText, rec.Text)
	assert.Equal(t, fixedNow.UTC(), rec.UploadedAt)
	assert.Equal(t, time.UTC, rec.UploadedAt.Location())
	assert.Empty(t, rec.StorageKey)
}

func TestAnalyzeMalformedPDFStillEvaluates(t *testing.T) {
	svc, client, repo := newTestService(t)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Data intern")
			return "not json", nil
		})

	res, err := svc.Analyze(context.Background(), AnalyzeInput{
		FileName:       "broken.pdf",
		Data:           []byte("this is not a pdf"),
		JobDescription: "Data intern",
	})

	require.NoError(t, err)
	assert.Equal(t, "", res.ResumeText)
	assert.True(t, res.Evaluation.Failed())
	require.Len(t, repo.Records("intern"), 1)
}

func TestAnalyzeArchivesUpload(t *testing.T) {
	svc, client, repo := newTestService(t)
	store := &recordingStore{}
	svc.Store = store
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{}`, nil)
	data := extracttest.BuildPDF("Archive me")

	_, err := svc.Analyze(context.Background(), AnalyzeInput{FileName: "a.pdf", Data: data, JobDescription: "jd"})

	require.NoError(t, err)
	assert.Equal(t, "intern", store.namespace)
	assert.Equal(t, data, store.data)
	assert.Equal(t, "intern/a.pdf", repo.Records("intern")[0].StorageKey)
}

func TestAnalyzeArchiveFailureIsNotFatal(t *testing.T) {
	svc, client, repo := newTestService(t)
	svc.Store = &recordingStore{err: errors.New("bucket missing")}
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{}`, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{FileName: "a.pdf", Data: []byte("x"), JobDescription: "jd"})

	require.NoError(t, err)
	assert.Empty(t, repo.Records("intern")[0].StorageKey)
}

func TestAnalyzePersistenceFailurePropagates(t *testing.T) {
	svc, client, _ := newTestService(t)
	svc.Repo = failingRepo{}
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(`{}`, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{FileName: "a.pdf", Data: []byte("x"), JobDescription: "jd"})

	assert.ErrorIs(t, err, ErrPersistence)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestAnalyzeModelFailureSkipsPersistence(t *testing.T) {
	svc, client, repo := newTestService(t)
	client.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))

	_, err := svc.Analyze(context.Background(), AnalyzeInput{FileName: "a.pdf", Data: []byte("x"), JobDescription: "jd"})

	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Empty(t, repo.Records("intern"))
}

func TestAnalyzeRequiresFileName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Data: []byte("x")})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
