package gorm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/domain/recipe"
	"github.com/pantrylab/forage/internal/infrastructure/persistence/migrations"
	"github.com/pantrylab/forage/internal/infrastructure/persistence/sqlite"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// RepositoryTestSuite exercises the GORM repositories against a real
// SQLite database with the full migration set applied
type RepositoryTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB

	recipes     outbound.RecipeRepository
	ingredients outbound.IngredientRepository
	nutritions  outbound.NutritionRepository
	reviewLog   outbound.ReviewLogRepository
	usage       outbound.UsageStore
}

func (s *RepositoryTestSuite) SetupTest() {
	dbPath := filepath.Join(s.T().TempDir(), "test.db")
	db, err := sqlite.SetupDatabase(dbPath, gormlogger.Silent)
	require.NoError(s.T(), err)
	require.NoError(s.T(), migrations.Up(db))

	s.ctx = context.Background()
	s.db = db
	s.recipes = NewRecipeRepository(db)
	s.ingredients = NewIngredientRepository(db)
	s.nutritions = NewNutritionRepository(db)
	s.reviewLog = NewReviewLogRepository(db)
	s.usage = NewUsageStore(db)
}

func (s *RepositoryTestSuite) TestRecipeCreate_StoresIngredientRows() {
	rec := &recipe.Recipe{Title: "Weeknight Curry", SourceURL: "https://example.com/curry"}
	lines := []string{"1 cup rice", "2 chicken breasts", "1 tbsp curry powder"}

	require.NoError(s.T(), s.recipes.Create(s.ctx, rec, lines))
	assert.NotZero(s.T(), rec.ID)

	unparsed, err := s.ingredients.FindUnparsed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), unparsed, 3)
	assert.Equal(s.T(), "1 cup rice", unparsed[0].RawText)
	assert.Equal(s.T(), rec.ID, unparsed[0].RecipeID)

	found, err := s.recipes.FindBySourceURL(s.ctx, "https://example.com/curry")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), rec.ID, found.ID)
}

func (s *RepositoryTestSuite) TestIngredientWorkingSets() {
	rec := &recipe.Recipe{Title: "Salad"}
	require.NoError(s.T(), s.recipes.Create(s.ctx, rec, []string{"2 tomatoes", "1 cucumber"}))

	unparsed, err := s.ingredients.FindUnparsed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), unparsed, 2)

	// Parse the first row but leave it unlinked
	first := unparsed[0]
	amount := 2.0
	first.Amount = &amount
	first.NormalizedName = "tomato"
	require.NoError(s.T(), s.ingredients.Update(s.ctx, first))

	unparsed, err = s.ingredients.FindUnparsed(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), unparsed, 1)

	unlinked, err := s.ingredients.FindUnlinked(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), unlinked, 1)
	assert.Equal(s.T(), "tomato", unlinked[0].NormalizedName)

	forced, err := s.ingredients.FindUnparsedOrUnlinked(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), forced, 2)

	// Link the parsed row and it leaves every working set
	record := &nutrition.Record{NormalizedName: "tomato", MatchType: nutrition.MatchExact}
	require.NoError(s.T(), s.nutritions.Create(s.ctx, record))
	first.MatchedNutritionID = &record.ID
	first.MatchType = string(nutrition.MatchExact)
	require.NoError(s.T(), s.ingredients.Update(s.ctx, first))

	unlinked, err = s.ingredients.FindUnlinked(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), unlinked)
}

func (s *RepositoryTestSuite) TestIngredientUpdate_PreservesIngestedColumns() {
	rec := &recipe.Recipe{Title: "Toast"}
	require.NoError(s.T(), s.recipes.Create(s.ctx, rec, []string{"2 slices bread"}))

	var before IngredientModel
	require.NoError(s.T(), s.db.First(&before).Error)
	require.False(s.T(), before.CreatedAt.IsZero())

	row, err := s.ingredients.FindByID(s.ctx, before.ID)
	require.NoError(s.T(), err)
	row.NormalizedName = "bread"
	require.NoError(s.T(), s.ingredients.Update(s.ctx, row))

	var after IngredientModel
	require.NoError(s.T(), s.db.First(&after, before.ID).Error)
	assert.Equal(s.T(), "bread", after.NormalizedName)
	assert.Equal(s.T(), before.CreatedAt, after.CreatedAt)
	assert.Equal(s.T(), before.RawFoodText, after.RawFoodText)
	assert.Equal(s.T(), before.RecipeID, after.RecipeID)
}

func (s *RepositoryTestSuite) TestIngredientUpdate_RejectsDanglingNutritionLink() {
	rec := &recipe.Recipe{Title: "Soup"}
	require.NoError(s.T(), s.recipes.Create(s.ctx, rec, []string{"1 carrot"}))

	rows, err := s.ingredients.FindUnparsed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 1)

	missing := uint(9999)
	rows[0].NormalizedName = "carrot"
	rows[0].MatchedNutritionID = &missing
	assert.Error(s.T(), s.ingredients.Update(s.ctx, rows[0]))
}

func (s *RepositoryTestSuite) TestNutritionCreate_DuplicateNameConflicts() {
	record := &nutrition.Record{NormalizedName: "banana", MatchType: nutrition.MatchExact}
	require.NoError(s.T(), s.nutritions.Create(s.ctx, record))

	dup := &nutrition.Record{NormalizedName: "banana", MatchType: nutrition.MatchFuzzy}
	err := s.nutritions.Create(s.ctx, dup)
	require.Error(s.T(), err)
	assert.True(s.T(), apperrors.Is(err, apperrors.CodePersistenceConflict))
}

func (s *RepositoryTestSuite) TestNutritionCreateOrGet_ReturnsExistingRow() {
	original := &nutrition.Record{NormalizedName: "oat", MatchType: nutrition.MatchExact}
	require.NoError(s.T(), s.nutritions.Create(s.ctx, original))

	late := &nutrition.Record{NormalizedName: "oat", MatchType: nutrition.MatchLLMEstimate}
	got, err := s.nutritions.CreateOrGet(s.ctx, late)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), original.ID, got.ID)
	assert.Equal(s.T(), nutrition.MatchExact, got.MatchType)
}

func (s *RepositoryTestSuite) TestNutritionApprovalLifecycle() {
	pending := &nutrition.Record{NormalizedName: "mystery paste", MatchType: nutrition.MatchLLMEstimate}
	require.NoError(s.T(), s.nutritions.Create(s.ctx, pending))

	records, err := s.nutritions.FindPending(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 1)
	assert.True(s.T(), records[0].IsPending())

	require.NoError(s.T(), s.nutritions.SetApproval(s.ctx, pending.ID, true))

	records, err = s.nutritions.FindPending(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), records)

	err = s.nutritions.SetApproval(s.ctx, 9999, true)
	assert.True(s.T(), apperrors.Is(err, apperrors.CodeNotFound))
}

func (s *RepositoryTestSuite) TestDistinctNormalizedNames() {
	for _, name := range []string{"carrot", "banana", "apple"} {
		require.NoError(s.T(), s.nutritions.Create(s.ctx, &nutrition.Record{NormalizedName: name}))
	}

	names, err := s.nutritions.DistinctNormalizedNames(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"apple", "banana", "carrot"}, names)
}

func (s *RepositoryTestSuite) TestReviewLogRecent_NewestFirst() {
	correlation := uuid.New()
	for i, raw := range []string{"first", "second", "third"} {
		entry := &ingredient.ReviewLogEntry{
			CorrelationID: correlation,
			IngredientID:  uint(i + 1),
			RawText:       raw,
			FallbackTiers: []string{ingredient.TierCatalog, ingredient.TierUnmatched},
		}
		require.NoError(s.T(), s.reviewLog.Append(s.ctx, entry))
	}

	entries, err := s.reviewLog.Recent(s.ctx, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 2)
	assert.Equal(s.T(), "third", entries[0].RawText)
	assert.Equal(s.T(), "second", entries[1].RawText)
	assert.Equal(s.T(), []string{ingredient.TierCatalog, ingredient.TierUnmatched}, entries[0].FallbackTiers)
}

func (s *RepositoryTestSuite) TestUsageStore_CountsPerDay() {
	calls, err := s.usage.CallsToday(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, calls)

	require.NoError(s.T(), s.usage.Increment(s.ctx))
	require.NoError(s.T(), s.usage.Increment(s.ctx))

	calls, err = s.usage.CallsToday(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, calls)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
