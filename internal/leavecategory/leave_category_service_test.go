package leavecategory_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dapphari007/leavemon-sub001/internal/leavecategory"
	leavecategoryerrors "github.com/dapphari007/leavemon-sub001/internal/leavecategory/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn                  func(ctx context.Context, cat *leavecategory.LeaveCategory) error
	findAllFn                 func(ctx context.Context, activeOnly bool) ([]leavecategory.LeaveCategory, error)
	findByIDFn                func(ctx context.Context, id string) (*leavecategory.LeaveCategory, error)
	findByNameFn              func(ctx context.Context, name string) (*leavecategory.LeaveCategory, error)
	updateFn                  func(ctx context.Context, cat *leavecategory.LeaveCategory) error
	deleteFn                  func(ctx context.Context, id string) error
	deleteDefaultsFn          func(ctx context.Context) (int64, error)
	countWorkflowReferencesFn func(ctx context.Context, id string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) leavecategory.Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, cat *leavecategory.LeaveCategory) error {
	return f.createFn(ctx, cat)
}

func (f *fakeRepo) FindAll(ctx context.Context, activeOnly bool) ([]leavecategory.LeaveCategory, error) {
	return f.findAllFn(ctx, activeOnly)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*leavecategory.LeaveCategory, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*leavecategory.LeaveCategory, error) {
	return f.findByNameFn(ctx, name)
}

func (f *fakeRepo) Update(ctx context.Context, cat *leavecategory.LeaveCategory) error {
	return f.updateFn(ctx, cat)
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeRepo) DeleteDefaults(ctx context.Context) (int64, error) {
	return f.deleteDefaultsFn(ctx)
}

func (f *fakeRepo) CountWorkflowReferences(ctx context.Context, id string) (int64, error) {
	return f.countWorkflowReferencesFn(ctx, id)
}

func TestCreate_RejectsNonHalfStepBand(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := leavecategory.NewService(db, &fakeRepo{})

	_, err = svc.Create(context.Background(), leavecategory.CreateLeaveCategoryRequest{
		Name:              "Odd",
		DefaultMinDays:    1.3,
		DefaultMaxDays:    2,
		MaxApprovalLevels: 1,
	})
	assert.ErrorIs(t, err, leavecategoryerrors.ErrInvalidHalfStep)
}

func TestCreate_RejectsInvertedBand(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := leavecategory.NewService(db, &fakeRepo{})

	_, err = svc.Create(context.Background(), leavecategory.CreateLeaveCategoryRequest{
		Name:              "Inverted",
		DefaultMinDays:    5,
		DefaultMaxDays:    2,
		MaxApprovalLevels: 1,
	})
	assert.ErrorIs(t, err, leavecategoryerrors.ErrInvalidDayRange)
}

func TestCreate_HalfDayBandAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeRepo{
		findByNameFn: func(ctx context.Context, name string) (*leavecategory.LeaveCategory, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, cat *leavecategory.LeaveCategory) error {
			return nil
		},
	}
	svc := leavecategory.NewService(db, repo)

	res, err := svc.Create(context.Background(), leavecategory.CreateLeaveCategoryRequest{
		Name:              "Short Leave",
		DefaultMinDays:    0.5,
		DefaultMaxDays:    2,
		MaxApprovalLevels: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.5, res.DefaultMinDays)
	assert.True(t, res.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateNameRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeRepo{
		findByNameFn: func(ctx context.Context, name string) (*leavecategory.LeaveCategory, error) {
			return &leavecategory.LeaveCategory{ID: uuid.New(), Name: name}, nil
		},
		createFn: func(ctx context.Context, cat *leavecategory.LeaveCategory) error {
			t.Fatal("create must not run on duplicate name")
			return nil
		},
	}
	svc := leavecategory.NewService(db, repo)

	_, err = svc.Create(context.Background(), leavecategory.CreateLeaveCategoryRequest{
		Name:              "Short Leave",
		DefaultMinDays:    0.5,
		DefaultMaxDays:    2,
		MaxApprovalLevels: 1,
	})
	assert.ErrorIs(t, err, leavecategoryerrors.ErrCategoryNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_BlockedWhileReferenced(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	catID := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*leavecategory.LeaveCategory, error) {
			return &leavecategory.LeaveCategory{ID: catID, Name: "Medium Leave"}, nil
		},
		countWorkflowReferencesFn: func(ctx context.Context, id string) (int64, error) {
			return 2, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			t.Fatal("delete must not run while workflows reference the category")
			return nil
		},
	}
	svc := leavecategory.NewService(db, repo)

	err = svc.Delete(context.Background(), catID.String())
	assert.ErrorIs(t, err, leavecategoryerrors.ErrCategoryReferenced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_UnreferencedSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	catID := uuid.New()
	deleted := false
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*leavecategory.LeaveCategory, error) {
			return &leavecategory.LeaveCategory{ID: catID, Name: "Medium Leave"}, nil
		},
		countWorkflowReferencesFn: func(ctx context.Context, id string) (int64, error) {
			return 0, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := leavecategory.NewService(db, repo)

	err = svc.Delete(context.Background(), catID.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeDefaults_ReplacesDefaultBands(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var created []leavecategory.LeaveCategory
	repo := &fakeRepo{
		deleteDefaultsFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
		createFn: func(ctx context.Context, cat *leavecategory.LeaveCategory) error {
			created = append(created, *cat)
			return nil
		},
	}
	svc := leavecategory.NewService(db, repo)

	res, err := svc.InitializeDefaults(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, res.Deleted)
	assert.Equal(t, len(created), res.Created)
	for _, cat := range created {
		assert.True(t, cat.IsDefault)
		assert.True(t, cat.IsActive)
		assert.LessOrEqual(t, cat.DefaultMinDays, cat.DefaultMaxDays)
	}
}
