package profileService

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"strings"
	"testing"
	"time"

	"portal/config"
	"portal/models"
	"portal/testutil"
	"portal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fileHeader builds the header a multipart upload of content named name produces.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)

	first, err := GetOrCreate(db, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreate(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = ByUsername(db, "nobody")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestUpdateProfile(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)

	p, err := Update(db, user, ProfileInput{Name: "Alice A.", Title: "Gopher", Website: "https://alice.dev"})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", p.Title)
	assert.Equal(t, "Alice A.", user.Name)

	_, p, err = ByUsername(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, "https://alice.dev", p.Website)
}

func TestPictureIsResizedAndReplaced(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)

	p, err := SetPicture(db, user.ID, fileHeader(t, "me.png", pngBytes(t, 1600, 400)))
	require.NoError(t, err)
	first := p.ProfilePicture

	f, err := os.Open(first)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, pictureMaxWidth, cfg.Width)
	assert.Equal(t, 200, cfg.Height)

	p, err = SetPicture(db, user.ID, fileHeader(t, "me2.png", pngBytes(t, 10, 10)))
	require.NoError(t, err)
	assert.NotEqual(t, first, p.ProfilePicture)
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))

	p, err = RemovePicture(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, p.ProfilePicture)
}

func TestResume(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)

	_, err := ResumePath(db, user.ID)
	assert.Equal(t, ErrNoResume, err)

	_, err = SetResume(db, user.ID, fileHeader(t, "cv.exe", []byte("MZ")))
	assert.Equal(t, utils.ErrUnsupportedFile, err)

	_, err = SetResume(db, user.ID, fileHeader(t, "cv.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	path, err := ResumePath(db, user.ID)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	assert.True(t, strings.HasPrefix(path, config.AppConfig.PrivateUploadDir), path)
	assert.False(t, strings.HasPrefix(path, config.AppConfig.UploadDir), path)
}

func day(s string) datatypes.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return datatypes.Date(t)
}

func TestSectionsOrdering(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	other := testutil.CreateUser(t, db, "bob", models.RoleUser)

	entries := []Entry{
		&models.Experience{Title: "Intern", Company: "Acme", StartDate: day("2018-06-01")},
		&models.Experience{Title: "Engineer", Company: "Globex", StartDate: day("2021-01-10")},
		&models.Education{Institution: "Uni", Degree: "BSc", StartDate: day("2014-09-01")},
		&models.Education{Institution: "Uni", Degree: "MSc", StartDate: day("2018-09-01")},
		&models.Skill{Name: "SQL", Percentage: 60},
		&models.Skill{Name: "Go", Percentage: 90},
		&models.Skill{Name: "CSS", Percentage: 30},
		&models.Project{Title: "Old", StartDate: day("2019-01-01")},
		&models.Project{Title: "New", StartDate: day("2023-01-01")},
		&models.Language{Name: "English", Proficiency: "native"},
		&models.Language{Name: "German", Proficiency: "basic"},
		&models.Certificate{Name: "CKA", Issuer: "CNCF", IssueDate: day("2020-05-01")},
		&models.Certificate{Name: "AWS SA", Issuer: "AWS", IssueDate: day("2022-03-01")},
	}
	for _, e := range entries {
		require.NoError(t, AddEntry(db, user.ID, e))
	}
	require.NoError(t, AddEntry(db, other.ID, &models.Skill{Name: "Rust", Percentage: 100}))

	s, err := LoadSections(db, user.ID)
	require.NoError(t, err)

	require.Len(t, s.Experiences, 2)
	assert.Equal(t, "Engineer", s.Experiences[0].Title)
	require.Len(t, s.Educations, 2)
	assert.Equal(t, "MSc", s.Educations[0].Degree)
	require.Len(t, s.Skills, 3)
	assert.Equal(t, []string{"Go", "SQL", "CSS"}, []string{s.Skills[0].Name, s.Skills[1].Name, s.Skills[2].Name})
	require.Len(t, s.Projects, 2)
	assert.Equal(t, "New", s.Projects[0].Title)
	require.Len(t, s.Languages, 2)
	assert.Equal(t, "English", s.Languages[0].Name)
	require.Len(t, s.Certificates, 2)
	assert.Equal(t, "AWS SA", s.Certificates[0].Name)

	empty, err := LoadSections(db, testutil.CreateUser(t, db, "carol", models.RoleUser).ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Skills)
	assert.Empty(t, empty.Skills)
}

func TestDeleteEntryIsOwnerScoped(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	other := testutil.CreateUser(t, db, "bob", models.RoleUser)

	skill := &models.Skill{Name: "Go", Percentage: 80}
	require.NoError(t, AddEntry(db, user.ID, skill))

	assert.Equal(t, ErrSectionNotFound, DeleteEntry(db, other.ID, models.SectionSkill, skill.ID))
	assert.Equal(t, ErrUnknownSection, DeleteEntry(db, user.ID, "hobby", skill.ID))
	require.NoError(t, DeleteEntry(db, user.ID, models.SectionSkill, skill.ID))

	s, err := LoadSections(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Skills)
}
