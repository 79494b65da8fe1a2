package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
	"gradus/internal/service"
	"gradus/mocks"
)

func TestAgendaService_Get_InstitutionalIgnoresDepartment(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	tree := sampleAgendaTree()
	repo.On("Get", mock.Anything, domain.AgendaInstitutional, "").Return(tree, nil)

	result, err := svc.Get(context.Background(), domain.AgendaInstitutional, "Computer Science")

	assert.NoError(t, err)
	assert.Equal(t, tree.ID, result.ID)
	repo.AssertCalled(t, "Get", mock.Anything, domain.AgendaInstitutional, "")
}

func TestAgendaService_Get_DepartmentalNeedsDepartment(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	result, err := svc.Get(context.Background(), domain.AgendaDepartmental, "  ")

	assert.Nil(t, result)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "department")
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestAgendaService_Get_UnknownType(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	result, err := svc.Get(context.Background(), "regional", "")

	assert.Nil(t, result)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "agenda_type")
}

func TestAgendaService_Options_WalksOneLevelDeeper(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	repo.On("Get", mock.Anything, domain.AgendaInstitutional, "").Return(sampleAgendaTree(), nil)

	roots, err := svc.Options(context.Background(), domain.AgendaInstitutional, "", nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Food Security", "Digital Transformation"}, roots)

	children, err := svc.Options(context.Background(), domain.AgendaInstitutional, "", []string{"Food Security"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Sustainable Agriculture"}, children)
}

func TestAgendaService_Options_MissingTree(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	repo.On("Get", mock.Anything, domain.AgendaDepartmental, "History").
		Return(nil, domain.ErrAgendaTreeNotFound)

	options, err := svc.Options(context.Background(), domain.AgendaDepartmental, "History", nil)

	assert.Nil(t, options)
	assert.ErrorIs(t, err, domain.ErrAgendaTreeNotFound)
}

func TestAgendaService_Upsert_NormalizesInstitutionalDepartment(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(tree *domain.AgendaTree) bool {
		return tree.AgendaType == domain.AgendaInstitutional && tree.Department == ""
	})).Return(nil)

	tree, err := svc.Upsert(context.Background(), &service.UpsertAgendaInput{
		AgendaType: domain.AgendaInstitutional,
		Department: "Computer Science",
		Roots:      []domain.AgendaNode{{Name: "Food Security"}},
	})

	assert.NoError(t, err)
	assert.Empty(t, tree.Department)
	repo.AssertExpectations(t)
}

func TestAgendaService_Upsert_RequiresRoots(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	tree, err := svc.Upsert(context.Background(), &service.UpsertAgendaInput{
		AgendaType: domain.AgendaInstitutional,
		Roots:      nil,
	})

	assert.Nil(t, tree)
	var fields domain.FieldErrors
	assert.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "roots")
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAgendaService_Upsert_DepartmentalKeepsDepartment(t *testing.T) {
	repo := new(mocks.MockAgendaRepo)
	svc := service.NewAgendaService(repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(tree *domain.AgendaTree) bool {
		return tree.AgendaType == domain.AgendaDepartmental && tree.Department == "Computer Science"
	})).Return(nil)

	tree, err := svc.Upsert(context.Background(), &service.UpsertAgendaInput{
		AgendaType: domain.AgendaDepartmental,
		Department: "Computer Science",
		Roots:      []domain.AgendaNode{{Name: "Algorithms for Social Good"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Computer Science", tree.Department)
}
