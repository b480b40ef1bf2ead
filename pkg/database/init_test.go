package database_test

import (
	"testing"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/testutil"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedBuiltinsIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.SeedBuiltins(db))

	var fieldCount, layoutCount int64
	require.NoError(t, db.Model(&model.FieldDefinition{}).Count(&fieldCount).Error)
	require.NoError(t, db.Model(&model.PageLayout{}).Count(&layoutCount).Error)
	assert.EqualValues(t, 15, fieldCount)
	assert.EqualValues(t, 3, layoutCount)

	// 管理员修改过的标签不会被覆盖
	require.NoError(t, db.Model(&model.FieldDefinition{}).
		Where("object_type = ? AND field_name = ?", model.ObjectTypeAccount, "name").
		Update("label", "Company").Error)

	require.NoError(t, database.SeedBuiltins(db))

	var again int64
	require.NoError(t, db.Model(&model.FieldDefinition{}).Count(&again).Error)
	assert.Equal(t, fieldCount, again)

	var name model.FieldDefinition
	require.NoError(t, db.Where("object_type = ? AND field_name = ?", model.ObjectTypeAccount, "name").First(&name).Error)
	assert.Equal(t, "Company", name.Label)
	assert.False(t, name.IsCustom)
	assert.True(t, name.Required)
}

func TestSeedBuiltinsDefaultLayouts(t *testing.T) {
	db := testutil.NewSeededDB(t)

	var layout model.PageLayout
	require.NoError(t, db.Where("object_type = ?", model.ObjectTypeOpportunity).First(&layout).Error)

	sections := layout.SectionList()
	require.Len(t, sections, 1)
	assert.Equal(t, "Opportunity Information", sections[0].Title)
	assert.Equal(t, 2, sections[0].Columns)
	assert.Equal(t, []string{"name", "accountId", "amount", "stage", "closeDate"}, sections[0].Fields)
}

func TestSeedBuiltinsStoresPicklistOptions(t *testing.T) {
	db := testutil.NewSeededDB(t)

	var stage model.FieldDefinition
	require.NoError(t, db.Where("object_type = ? AND field_name = ?", model.ObjectTypeOpportunity, "stage").First(&stage).Error)
	assert.Equal(t, model.FieldTypePicklist, stage.FieldType)
	assert.Equal(t, model.OpportunityStages, []string(stage.Options))
}
