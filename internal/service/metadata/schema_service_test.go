package metadata_test

import (
	"context"
	"testing"
	"time"

	"github.com/fisker/crm-backend/internal/form"
	"github.com/fisker/crm-backend/internal/metadata"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/repository"
	svc "github.com/fisker/crm-backend/internal/service/metadata"
	"github.com/fisker/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	schema   *svc.SchemaService
	forms    *svc.FormService
	accounts *repository.AccountRepository
	contacts *repository.ContactRepository
	opps     *repository.OpportunityRepository
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewSeededDB(t)
	client, _ := testutil.NewRedis(t)

	fields := repository.NewFieldDefinitionRepository(db)
	layouts := repository.NewPageLayoutRepository(db)
	resolver := metadata.NewResolver(fields, layouts, metadata.NewCache(client, time.Minute))

	f := fixture{
		accounts: repository.NewAccountRepository(db),
		contacts: repository.NewContactRepository(db),
		opps:     repository.NewOpportunityRepository(db),
	}
	f.schema = svc.NewSchemaService(fields, layouts, resolver)
	f.forms = svc.NewFormService(resolver, f.accounts, f.contacts, f.opps)
	return f
}

func validationErr(t *testing.T, err error) *model.ValidationError {
	t.Helper()
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestSchemaService_CreateField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	field, err := f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "account",
		FieldName:  "tier",
		Label:      "Tier",
		FieldType:  "picklist",
		Options:    []string{"Gold", "Silver"},
	})
	require.NoError(t, err)
	assert.True(t, field.IsCustom)
	assert.Equal(t, 6, field.SortOrder)

	// 缓存在写入后失效，新字段立即可见
	resolved, err := f.schema.ResolvedFields(ctx, "account")
	require.NoError(t, err)
	require.Len(t, resolved, 6)
	assert.Equal(t, "tier", resolved[5].FieldName)

	_, err = f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "account", FieldName: "tier", Label: "Tier again", FieldType: "text",
	})
	assert.Equal(t, []string{"Field already exists"}, validationErr(t, err).FieldErrors["fieldName"])

	_, err = f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "account", FieldName: "industry", Label: "Industry", FieldType: "text",
	})
	assert.Equal(t, []string{"Field already exists"}, validationErr(t, err).FieldErrors["fieldName"])

	_, err = f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "account", FieldName: "segment", Label: "Segment", FieldType: "picklist", Options: []string{" "},
	})
	assert.Contains(t, validationErr(t, err).FieldErrors, "options")

	_, err = f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "lead", FieldName: "9lives", Label: "", FieldType: "color",
	})
	verr := validationErr(t, err)
	assert.Contains(t, verr.FieldErrors, "objectType")
	assert.Contains(t, verr.FieldErrors, "fieldName")
	assert.Contains(t, verr.FieldErrors, "label")
	assert.Contains(t, verr.FieldErrors, "fieldType")
}

func TestSchemaService_UpdateAndDeleteField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	builtins, err := f.schema.ListFields(ctx, "opportunity")
	require.NoError(t, err)
	require.NotEmpty(t, builtins)
	stage := builtins[3]
	require.Equal(t, "stage", stage.FieldName)

	label := "Sales Stage"
	updated, err := f.schema.UpdateField(ctx, stage.ID, model.UpdateFieldDefinitionRequest{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "Sales Stage", updated.Label)
	assert.Equal(t, model.FieldTypePicklist, updated.FieldType)

	text := "text"
	_, err = f.schema.UpdateField(ctx, stage.ID, model.UpdateFieldDefinitionRequest{FieldType: &text})
	assert.Contains(t, validationErr(t, err).FieldErrors, "fieldType")

	err = f.schema.DeleteField(ctx, stage.ID)
	assert.ErrorIs(t, err, model.ErrBuiltInField)

	custom, err := f.schema.CreateField(ctx, model.CreateFieldDefinitionRequest{
		ObjectType: "opportunity", FieldName: "probability", Label: "Probability", FieldType: "number",
	})
	require.NoError(t, err)
	updated, err = f.schema.UpdateField(ctx, custom.ID, model.UpdateFieldDefinitionRequest{FieldType: &text})
	require.NoError(t, err)
	assert.Equal(t, model.FieldTypeText, updated.FieldType)

	require.NoError(t, f.schema.DeleteField(ctx, custom.ID))
	assert.ErrorIs(t, f.schema.DeleteField(ctx, custom.ID), model.ErrNotFound)

	_, err = f.schema.ListFields(ctx, "lead")
	assert.ErrorIs(t, err, model.ErrInvalidObjectType)

	all, err := f.schema.ListFields(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 15)
}

func TestSchemaService_Layout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.schema.Layout(ctx, "contact")
	require.NoError(t, err)
	assert.True(t, view.Persisted)

	columns := 1
	saved, err := f.schema.UpsertLayout(ctx, "contact", model.UpsertPageLayoutRequest{
		Sections: []model.SectionInput{
			{Title: "Name", Columns: &columns, Fields: []string{"firstName", "lastName"}},
			{Title: "Other", Fields: []string{"email", "ghost"}},
		},
	})
	require.NoError(t, err)
	sections := saved.SectionList()
	require.Len(t, sections, 2)
	assert.Equal(t, 2, sections[1].Columns)

	view, err = f.schema.Layout(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, sections, view.Sections)

	bad := 5
	_, err = f.schema.UpsertLayout(ctx, "contact", model.UpsertPageLayoutRequest{
		Sections: []model.SectionInput{{Title: "", Columns: &bad}},
	})
	verr := validationErr(t, err)
	assert.Contains(t, verr.FieldErrors, "sections[0].title")
	assert.Contains(t, verr.FieldErrors, "sections[0].columns")

	_, err = f.schema.UpsertLayout(ctx, "lead", model.UpsertPageLayoutRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidObjectType)
}

func TestFormService_RenderAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account := &model.Account{Name: "Acme"}
	require.NoError(t, f.accounts.Create(ctx, account))
	contact := &model.Contact{FirstName: "Jane", LastName: "Doe", AccountID: &account.ID}
	require.NoError(t, f.contacts.Create(ctx, contact))

	blank, err := f.forms.Render(ctx, "contact", "", "edit")
	require.NoError(t, err)
	assert.Nil(t, blank.RecordID)
	require.Len(t, blank.Sections, 1)
	assert.Len(t, blank.Sections[0].Controls, 5)

	view, err := f.forms.Render(ctx, "contact", contact.ID, "view")
	require.NoError(t, err)
	var lookup *form.Control
	for i, c := range view.Sections[0].Controls {
		if c.FieldName == "accountId" {
			lookup = &view.Sections[0].Controls[i]
		}
	}
	require.NotNil(t, lookup)
	assert.Equal(t, "Acme", lookup.Display)

	_, err = f.forms.Render(ctx, "contact", "missing", "view")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.forms.Render(ctx, "contact", "", "print")
	assert.Error(t, err)

	result, err := f.forms.Validate(ctx, "contact", map[string]interface{}{"firstName": "", "lastName": "Doe"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Required", result.Errors["firstName"])

	result, err = f.forms.Validate(ctx, "contact", map[string]interface{}{"firstName": "Jane", "lastName": "Doe"})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestFormService_Table(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex", "Initech"} {
		require.NoError(t, f.accounts.Create(ctx, &model.Account{Name: name}))
	}

	table, err := f.forms.Table(ctx, "account", "glob", model.ParsePagination("", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), table.Total)
	assert.Equal(t, "Account Name", table.Headers[0])
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Globex", table.Rows[0].Cells[0])
	assert.NotEmpty(t, table.Rows[0].ID)
}

// 检查通过后、插入前另一个请求写入同名字段，唯一索引冲突仍返回 400
func TestSchemaService_CreateFieldConcurrentDuplicate(t *testing.T) {
	db := testutil.NewSeededDB(t)
	fields := repository.NewFieldDefinitionRepository(db)
	layouts := repository.NewPageLayoutRepository(db)
	schema := svc.NewSchemaService(fields, layouts, metadata.NewResolver(fields, layouts, metadata.NoopCache{}))

	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.FieldDefinition); !ok {
			return
		}
		raced = true
		other := &model.FieldDefinition{
			ObjectType: model.ObjectTypeAccount,
			FieldName:  "tier",
			Label:      "Tier",
			FieldType:  model.FieldTypeText,
			IsCustom:   true,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(other).Error; err != nil {
			tx.AddError(err)
		}
	}))

	_, err := schema.CreateField(context.Background(), model.CreateFieldDefinitionRequest{
		ObjectType: "account",
		FieldName:  "tier",
		Label:      "Tier",
		FieldType:  "text",
	})
	verr := validationErr(t, err)
	assert.Equal(t, []string{"Field already exists"}, verr.FieldErrors["fieldName"])
	assert.True(t, raced)
}
