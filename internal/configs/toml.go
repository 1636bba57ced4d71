package configs

import (
	"github.com/BurntSushi/toml"
)

// LoadTOML loads a TOML file into a struct. The returned metadata records
// key declaration order and any keys the struct did not consume.
func LoadTOML(filePath string, data interface{}) (toml.MetaData, error) {
	return toml.DecodeFile(filePath, data)
}

// DecodeTOML decodes TOML text into a struct.
func DecodeTOML(text string, data interface{}) (toml.MetaData, error) {
	return toml.Decode(text, data)
}
