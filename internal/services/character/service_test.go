package character_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	domain "github.com/storycraft/roller/internal/domain/character"
	rerr "github.com/storycraft/roller/internal/errors"
	mockcharacters "github.com/storycraft/roller/internal/repositories/characters/mocks"
	"github.com/storycraft/roller/internal/services/character"
	"github.com/storycraft/roller/internal/testutils"
	mockuuid "github.com/storycraft/roller/internal/uuid/mocks"
)

const validID = "6f1c2a8e-3b7d-4c5e-9a10-2b3c4d5e6f70"

// CharacterServiceTestSuite defines the test suite for character service
type CharacterServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRepository *mockcharacters.MockRepository
	mockUUID       *mockuuid.MockGenerator
	service        character.Service
	ctx            context.Context
}

func (s *CharacterServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepository = mockcharacters.NewMockRepository(s.ctrl)
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.ctx = context.Background()

	s.service = character.NewService(&character.ServiceConfig{
		Repository:    s.mockRepository,
		UUIDGenerator: s.mockUUID,
	})
}

func (s *CharacterServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCharacterServiceSuite(t *testing.T) {
	suite.Run(t, new(CharacterServiceTestSuite))
}

func (s *CharacterServiceTestSuite) TestCreate() {
	s.mockUUID.EXPECT().New().Return(validID)
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	char, err := s.service.Create(s.ctx, &character.CreateInput{
		OwnerID:    "player-1",
		Name:       "  Lia ",
		Level:      3,
		Attributes: map[string]int{"Força": 2},
		MaxHP:      18,
		MaxMP:      6,
	})
	s.Require().NoError(err)

	s.Equal(validID, char.ID)
	s.Equal("Lia", char.Name)
	s.Equal(domain.SystemStoryCraft, char.SystemVersion)
	s.Equal(domain.Pool{Current: 18, Max: 18}, char.Main.HP)
	s.Equal(2, char.Attributes["Força"].Base)
}

func (s *CharacterServiceTestSuite) TestCreate_Validation() {
	_, err := s.service.Create(s.ctx, &character.CreateInput{OwnerID: "player-1"})
	s.True(rerr.IsInvalidArgument(err))

	_, err = s.service.Create(s.ctx, &character.CreateInput{Name: "Lia"})
	s.True(rerr.IsInvalidArgument(err))

	_, err = s.service.Create(s.ctx, &character.CreateInput{Name: "Lia", OwnerID: "p", MaxHP: -1})
	s.Equal(rerr.CodeValidation, rerr.GetCode(err))
}

func (s *CharacterServiceTestSuite) TestGet_NotFoundKeepsCode() {
	s.mockRepository.EXPECT().Get(s.ctx, "missing").Return(nil, rerr.NotFound("character not found"))

	_, err := s.service.Get(s.ctx, "missing")
	s.True(rerr.IsNotFound(err))
}

func (s *CharacterServiceTestSuite) TestImport_YAML() {
	doc := []byte(`
id: not-a-uuid
owner_id: someone-else
name: Lia
level: 12
attributes:
  Destreza: {base: 4}
main:
  hp: {current: 40, max: 20}
  mp: {current: -3, max: 10}
buffs:
  - name: Fúria
    cost_resource: MP
    cost_amount: 1
    effects:
      - {type: dice, value: 1d4}
      - {type: attribute, target: Força, value: 2}
actions:
  - name: Ataque Furtivo
    cost_resource: HP
    cost_amount: 2
    components:
      - {type: skill_check, skill: Furtividade}
      - {type: dice, text: 1d6}
`)

	s.mockUUID.EXPECT().New().Return(validID)
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	char, err := s.service.Import(s.ctx, &character.ImportInput{
		OwnerID: "player-1",
		Data:    doc,
		Format:  character.FormatYAML,
	})
	s.Require().NoError(err)

	s.Equal(validID, char.ID)
	s.Equal("player-1", char.OwnerID)
	s.Equal(domain.SystemStoryCraft, char.SystemVersion)
	s.Equal(20, char.Main.HP.Current)
	s.Equal(0, char.Main.MP.Current)
	s.Equal(domain.ResourceMP, char.Buffs[0].CostResource)
	s.Equal(domain.EffectValue("2"), char.Buffs[0].Effects[1].Value)
	s.Equal(domain.ResourceHP, char.Actions[0].CostResource)
	s.Equal("1d6", char.Actions[0].Components[1].Text)
}

func (s *CharacterServiceTestSuite) TestImport_KeepsValidIDAndRejectsBadDocs() {
	s.mockRepository.EXPECT().Create(s.ctx, gomock.Any()).Return(nil)

	char, err := s.service.Import(s.ctx, &character.ImportInput{
		Data:   []byte(`{"id":"` + validID + `","owner_id":"player-1","name":"Lia"}`),
		Format: character.FormatJSON,
	})
	s.Require().NoError(err)
	s.Equal(validID, char.ID)

	_, err = s.service.Import(s.ctx, &character.ImportInput{Data: []byte(`{`), Format: character.FormatJSON})
	s.True(rerr.IsInvalidArgument(err))

	s.mockUUID.EXPECT().New().Return(validID)
	_, err = s.service.Import(s.ctx, &character.ImportInput{Data: []byte(`{"name":"Lia"}`)})
	s.Equal(rerr.CodeValidation, rerr.GetCode(err))
}

func (s *CharacterServiceTestSuite) TestExport_RoundTrip() {
	stored := testutils.CreateTestCharacter(validID, "player-1", "Lia")
	s.mockRepository.EXPECT().Get(s.ctx, validID).Return(stored, nil).Times(2)

	for _, format := range []character.Format{character.FormatJSON, character.FormatYAML} {
		data, err := s.service.Export(s.ctx, validID, format)
		s.Require().NoError(err)

		decoded, err := character.DecodeSheet(data, format)
		s.Require().NoError(err)
		s.Equal(stored.Actions, decoded.Actions, format)
		s.Equal(stored.Buffs, decoded.Buffs, format)
		s.Equal(stored.Main, decoded.Main, format)
	}
}

func (s *CharacterServiceTestSuite) TestToggleBuff() {
	stored := testutils.CreateTestCharacter(validID, "player-1", "Lia")
	s.mockRepository.EXPECT().Get(s.ctx, validID).Return(stored, nil)
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(nil)

	char, err := s.service.ToggleBuff(s.ctx, validID, "fúria", true)
	s.Require().NoError(err)
	s.True(char.Buffs[0].IsActive)
	s.Equal(6, char.AttributeSnapshot().Get("Força"))
}

func (s *CharacterServiceTestSuite) TestToggleBuff_UnchangedSkipsUpdate() {
	stored := testutils.CreateTestCharacter(validID, "player-1", "Lia")
	s.mockRepository.EXPECT().Get(s.ctx, validID).Return(stored, nil)

	_, err := s.service.ToggleBuff(s.ctx, validID, "Fúria", false)
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestToggleBuff_UnknownBuff() {
	s.mockRepository.EXPECT().Get(s.ctx, validID).Return(testutils.CreateTestCharacter(validID, "player-1", "Lia"), nil)

	_, err := s.service.ToggleBuff(s.ctx, validID, "Invisibilidade", true)
	s.True(rerr.IsNotFound(err))
}

func (s *CharacterServiceTestSuite) TestToggleBuff_WaitsForSheetLock() {
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- s.service.WithLock(s.ctx, validID, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	_, err := s.service.ToggleBuff(ctx, validID, "Fúria", true)
	s.Require().Error(err)
	s.Equal(rerr.CodeUnavailable, rerr.GetCode(err))

	close(release)
	s.NoError(<-done)
}

func (s *CharacterServiceTestSuite) TestWithLock() {
	s.True(rerr.IsInvalidArgument(s.service.WithLock(s.ctx, "", func(context.Context) error { return nil })))

	want := errors.New("boom")
	s.ErrorIs(s.service.WithLock(s.ctx, validID, func(context.Context) error { return want }), want)
}

func (s *CharacterServiceTestSuite) TestSave() {
	stored := testutils.CreateTestCharacter(validID, "player-1", "Lia")
	s.mockRepository.EXPECT().Update(s.ctx, stored).Return(rerr.NotFound("character not found"))

	err := s.service.Save(s.ctx, stored)
	s.True(rerr.IsNotFound(err))
	s.True(rerr.IsInvalidArgument(s.service.Save(s.ctx, nil)))
}

func (s *CharacterServiceTestSuite) TestDelete() {
	s.mockRepository.EXPECT().Delete(s.ctx, validID).Return(errors.New("redis down"))

	s.Error(s.service.Delete(s.ctx, validID))
	s.True(rerr.IsInvalidArgument(s.service.Delete(s.ctx, "")))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]character.Format{"json": character.FormatJSON, "YML": character.FormatYAML, " yaml ": character.FormatYAML} {
		got, err := character.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := character.ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) should fail")
	}
	if got := character.FormatFromPath("sheets/lia.yml"); got != character.FormatYAML {
		t.Errorf("FormatFromPath = %q", got)
	}
}
