package repository_test

import (
	"context"
	"testing"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	"github.com/fisker/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestContactRepository_ListOrderAndAccountName(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	account := &model.Account{Name: "Acme"}
	require.NoError(t, repository.NewAccountRepository(db).Create(ctx, account))

	repo := repository.NewContactRepository(db)
	require.NoError(t, repo.CreateBatch(ctx, []model.Contact{
		{FirstName: "Zoe", LastName: "Smith", AccountID: &account.ID},
		{FirstName: "Adam", LastName: "Smith"},
		{FirstName: "Mary", LastName: "Brown", Email: testutil.Ptr("mary@example.com")},
	}))

	data, total, err := repo.List(ctx, model.ContactFilter{}, model.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, data, 3)
	assert.Equal(t, "Mary", data[0].FirstName)
	assert.Equal(t, "Adam", data[1].FirstName)
	assert.Equal(t, "Zoe", data[2].FirstName)
	assert.Nil(t, data[1].AccountName)
	require.NotNil(t, data[2].AccountName)
	assert.Equal(t, "Acme", *data[2].AccountName)

	data, total, err = repo.List(ctx, model.ContactFilter{AccountID: account.ID}, model.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Zoe", data[0].FirstName)
}

func TestContactRepository_SearchUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewContactRepository(db)

	contact := &model.Contact{FirstName: "Mary", LastName: "Brown", Email: testutil.Ptr("Mary.Brown@Example.com")}
	require.NoError(t, repo.Create(ctx, contact))

	data, total, err := repo.Search(ctx, "example.COM", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, contact.ID, data[0].ID)

	updated, err := repo.Update(ctx, contact.ID, map[string]interface{}{
		"last_name":     "Green",
		"custom_fields": datatypes.JSONMap{"nickname": "M"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Green", updated.LastName)
	assert.Equal(t, "M", updated.CustomFields["nickname"])

	require.NoError(t, repo.Delete(ctx, contact.ID))
	_, err = repo.FindByID(ctx, contact.ID)
	assert.EqualError(t, err, "Contact not found")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
