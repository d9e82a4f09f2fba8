package merge

import (
	"context"
	"errors"
	"testing"

	"content-forge/feature/content/convert"
	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
	"content-forge/feature/content/schema"
	"content-forge/feature/content/store/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSynthesizer(t *testing.T) *convert.Synthesizer {
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	return convert.NewSynthesizer("pf2e", nil, validator)
}

func existingGoblin() *models.Document {
	return &models.Document{
		ID:   "goblin0000000001",
		Name: "Goblin Warrior",
		Type: "npc",
		System: models.ActorSystem{
			Slug: "goblin-warrior",
		},
		Items: []models.Embedded{
			{ID: "lore000000000001", Name: "Acrobatics", Type: models.EmbeddedLore, System: models.LoreSystem{Mod: models.ValueInt{Value: 5}}},
			{ID: "lore000000000002", Name: "Stealth", Type: models.EmbeddedLore, System: models.LoreSystem{Mod: models.ValueInt{Value: 5}}},
		},
	}
}

func TestBuildPlan_ReplaceDeletesAndRecreates(t *testing.T) {
	synth := testSynthesizer(t)
	merged := baseActor()

	plan, err := BuildPlan(existingGoblin(), merged, Request{SectionSkills: OpReplace}, synth, ident.NewAllocator())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"lore000000000001", "lore000000000002"}, plan.DeleteIDs)
	assert.Len(t, plan.Creates, len(merged.Skills))
	assert.Equal(t, "goblin0000000001", plan.OwnerID)
	assert.Equal(t, 2, plan.Summary.Deletes)
}

func TestBuildPlan_AddCreatesOnlyNewKeys(t *testing.T) {
	synth := testSynthesizer(t)
	merged := baseActor()
	merged.Skills = append(merged.Skills, models.Skill{Name: "Athletics", Value: 4})

	plan, err := BuildPlan(existingGoblin(), merged, Request{SectionSkills: OpAdd}, synth, ident.NewAllocator())
	require.NoError(t, err)

	// Acrobatics and Stealth already exist and keep their identifiers.
	assert.Empty(t, plan.DeleteIDs)
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "Athletics", plan.Creates[0].Name)
}

func TestBuildPlan_KeepsChosenPortrait(t *testing.T) {
	synth := testSynthesizer(t)

	existing := existingGoblin()
	existing.Img = "worlds/art/goblin.webp"

	plan, err := BuildPlan(existing, baseActor(), Request{SectionCore: OpReplace}, synth, ident.NewAllocator())
	require.NoError(t, err)
	assert.Equal(t, "worlds/art/goblin.webp", plan.Root.Img)

	existing.Img = "icons/svg/mystery-man.svg"
	plan, err = BuildPlan(existing, baseActor(), Request{SectionCore: OpReplace}, synth, ident.NewAllocator())
	require.NoError(t, err)
	assert.NotEqual(t, "icons/svg/mystery-man.svg", plan.Root.Img)
}

func TestBuildPlan_SpellsAddToSurvivingEntry(t *testing.T) {
	synth := testSynthesizer(t)

	existing := existingGoblin()
	existing.Items = append(existing.Items,
		models.Embedded{
			ID:   "entry00000000001",
			Name: "Primal Spells",
			Type: models.EmbeddedSpellcasting,
			System: models.SpellcastingSystem{
				Tradition: models.ValueStr{Value: "primal"},
				Prepared:  models.ValueStr{Value: "prepared"},
			},
		},
		models.Embedded{
			ID:   "spell00000000001",
			Name: "Heal",
			Type: models.EmbeddedSpell,
			System: models.SpellSystem{
				Level:    models.ValueInt{Value: 1},
				Location: models.ValueStr{Value: "entry00000000001"},
			},
		},
	)

	merged := baseActor()
	merged.Spellcasting = []models.Spellcasting{{
		Name:        "Primal Spells",
		Tradition:   "primal",
		CastingType: "prepared",
		Spells: []models.SpellEntry{
			{Level: 1, Name: "Heal"},     // already present, no mutation
			{Level: 2, Name: "Barkskin"}, // new, relocated to the real entry
		},
	}}

	plan, err := BuildPlan(existing, merged, Request{SectionSpells: OpAdd}, synth, ident.NewAllocator())
	require.NoError(t, err)

	assert.Empty(t, plan.DeleteIDs)
	assert.Empty(t, plan.Spells)
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, "Barkskin", plan.Creates[0].Name)
	system, ok := plan.Creates[0].System.(models.SpellSystem)
	require.True(t, ok)
	assert.Equal(t, "entry00000000001", system.Location.Value)
}

func TestBuildPlan_SpellsForNewEntryStayProvisional(t *testing.T) {
	synth := testSynthesizer(t)

	merged := baseActor()
	merged.Spellcasting = []models.Spellcasting{{
		Name:        "Arcane Spells",
		Tradition:   "arcane",
		CastingType: "innate",
		Spells:      []models.SpellEntry{{Level: 1, Name: "Shield"}},
	}}

	plan, err := BuildPlan(existingGoblin(), merged, Request{SectionSpells: OpAdd}, synth, ident.NewAllocator())
	require.NoError(t, err)

	require.Len(t, plan.Creates, 1)
	assert.Equal(t, models.EmbeddedSpellcasting, plan.Creates[0].Type)
	require.Len(t, plan.Spells, 1)
	system, ok := plan.Spells[0].System.(models.SpellSystem)
	require.True(t, ok)
	assert.Equal(t, plan.Creates[0].ID, system.Location.Value)
}

func TestApply_RequiresConfirmation(t *testing.T) {
	st := new(mocks.DocumentStore)
	plan := &Plan{OwnerID: "owner", Root: &models.Document{ID: "owner"}}

	result, err := Apply(context.Background(), st, plan, Options{Confirmed: false})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Executed)

	result, err = Apply(context.Background(), st, plan, Options{Confirmed: true, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Executed)

	st.AssertExpectations(t)
}

func TestApply_RemapsSpellLocations(t *testing.T) {
	st := new(mocks.DocumentStore)

	entry := models.Embedded{ID: "prov0000000entry", Name: "Arcane Spells", Type: models.EmbeddedSpellcasting, System: models.SpellcastingSystem{}}
	spell := models.Embedded{ID: "prov0000000spell", Name: "Shield", Type: models.EmbeddedSpell, System: models.SpellSystem{
		Location: models.ValueStr{Value: "prov0000000entry"},
	}}
	plan := &Plan{
		OwnerID: "owner",
		Root:    &models.Document{ID: "owner"},
		Creates: []models.Embedded{entry},
		Spells:  []models.Embedded{spell},
	}

	createdEntry := entry
	createdEntry.ID = "real0000000entry"

	st.On("Update", mock.Anything, plan.Root).Return(nil)
	st.On("CreateEmbedded", mock.Anything, "owner", plan.Creates).Return([]models.Embedded{createdEntry}, nil).Once()

	var createdSpells []models.Embedded
	st.On("CreateEmbedded", mock.Anything, "owner", mock.Anything).Run(func(args mock.Arguments) {
		createdSpells = args.Get(2).([]models.Embedded)
	}).Return([]models.Embedded{{ID: "real0000000spell"}}, nil).Once()

	result, err := Apply(context.Background(), st, plan, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Executed)
	assert.Empty(t, result.Skipped)

	require.Len(t, createdSpells, 1)
	system, ok := createdSpells[0].System.(models.SpellSystem)
	require.True(t, ok)
	assert.Equal(t, "real0000000entry", system.Location.Value)

	st.AssertExpectations(t)
}

func TestApply_SkipsSpellsWithoutCreatedEntry(t *testing.T) {
	st := new(mocks.DocumentStore)

	spell := models.Embedded{ID: "prov0000000spell", Name: "Shield", Type: models.EmbeddedSpell, System: models.SpellSystem{
		Location: models.ValueStr{Value: "never-created"},
	}}
	plan := &Plan{
		OwnerID: "owner",
		Root:    &models.Document{ID: "owner"},
		Spells:  []models.Embedded{spell},
	}

	st.On("Update", mock.Anything, plan.Root).Return(nil)

	result, err := Apply(context.Background(), st, plan, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Executed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Shield", result.Skipped[0].Name)

	st.AssertExpectations(t)
}

func TestApply_ReturnsProgressOnFailure(t *testing.T) {
	st := new(mocks.DocumentStore)

	plan := &Plan{
		OwnerID:   "owner",
		Root:      &models.Document{ID: "owner"},
		DeleteIDs: []string{"stale00000000001"},
	}

	st.On("Update", mock.Anything, plan.Root).Return(nil)
	st.On("DeleteEmbedded", mock.Anything, "owner", plan.DeleteIDs).Return(errors.New("connection reset"))

	result, err := Apply(context.Background(), st, plan, Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete embedded records")
	// The root update had already gone through.
	assert.Equal(t, 1, result.Executed)

	st.AssertExpectations(t)
}
