package model

// Character is the profile the prompt builder needs. Transcript holds recent chat lines, oldest first.
type Character struct {
	ID          CharacterID `yaml:"id"`
	Name        string      `yaml:"name"`
	RealName    string      `yaml:"real_name"`
	Personality string      `yaml:"personality"`
	Signature   string      `yaml:"signature"`
	Transcript  []string    `yaml:"transcript"`
}

// DisplayName prefers the nickname and falls back to the real name.
func (c *Character) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.RealName
}
