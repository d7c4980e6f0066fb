package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestLoadCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(`
user_name: 阿杰
characters:
  - id: c1
    name: 小雨
    personality: 外冷内热
    signature: 今天也要加油
    transcript:
      - "阿杰: 在吗"
      - "小雨: 在"
  - id: c2
    real_name: 王磊
`), 0600))

	chars, err := repository.LoadCharacters(path)
	gt.NoError(t, err)
	gt.Equal(t, chars.UserName, "阿杰")
	gt.A(t, chars.Characters).Length(2)

	c1, err := chars.GetCharacter(context.Background(), "c1")
	gt.NoError(t, err)
	gt.Equal(t, c1.DisplayName(), "小雨")
	gt.A(t, c1.Transcript).Length(2)

	c2, err := chars.GetCharacter(context.Background(), model.CharacterID("c2"))
	gt.NoError(t, err)
	gt.Equal(t, c2.DisplayName(), "王磊")

	_, err = chars.GetCharacter(context.Background(), "nobody")
	gt.Error(t, err)
}

func TestLoadCharactersRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	gt.NoError(t, os.WriteFile(path, []byte("characters:\n  - name: 无名\n"), 0600))

	_, err := repository.LoadCharacters(path)
	gt.Error(t, err)
}
