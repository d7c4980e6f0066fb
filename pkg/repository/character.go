package repository

import (
	"context"
	"os"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Characters is a set of profiles loaded from a YAML file:
//
//	user_name: 阿杰
//	characters:
//	  - id: c1
//	    name: 小雨
//	    personality: 外冷内热
//	    transcript: ["user: 在吗", "小雨: 在"]
type Characters struct {
	UserName   string             `yaml:"user_name"`
	Characters []*model.Character `yaml:"characters"`
}

func LoadCharacters(path string) (*Characters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read character file", goerr.V("path", path))
	}

	var chars Characters
	if err := yaml.Unmarshal(data, &chars); err != nil {
		return nil, goerr.Wrap(err, "failed to parse character file", goerr.V("path", path))
	}

	for i, c := range chars.Characters {
		if c.ID == "" {
			return nil, goerr.New("character id is empty", goerr.V("path", path), goerr.V("index", i))
		}
	}
	return &chars, nil
}

func (c *Characters) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, nil
		}
	}
	return nil, goerr.New("character not found", goerr.V("character_id", id))
}
