package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
)

const tomlTemplate = `version = "%s"

[profiles.default.env]
# Uncomment to only pass matching host variables to the command.
# keep = ["^PATH$", "^LC_.*"]

[profiles.default.env.vars.APP_NAME.plain]
literal = "myapp"

# Plain value written as base64 ("localhost").
# [profiles.default.env.vars.DB_HOST.plain]
# base64 = "bG9jYWxob3N0"

# Secure value decrypted with a private key read from a file.
# [profiles.default.env.vars.SECRET_TOKEN.secure]
# secret.pgp.file = "/path/to/private.key"
# value.literal = """
# -----BEGIN PGP MESSAGE-----
# ...
# -----END PGP MESSAGE-----
# """

# Secure value decrypted with a private key stored in Google Cloud Secret Manager.
# [profiles.default.env.vars.API_KEY.secure]
# secret.pgp.gcp = { secret = "projects/myproject/secrets/my-pgp-key", version = "latest" }
# value.base64 = "<base64 of the armored message>"

# Secure value decrypted with a key from the local GnuPG keyring.
# [profiles.default.env.vars.SIGNING_TOKEN.secure]
# secret.pgp.gpg.fingerprint = "0123456789ABCDEF0123456789ABCDEF01234567"
# value.literal = "-----BEGIN PGP MESSAGE-----..."

# Ephemeral file, removed when the command exits.
# [profiles.default.files."/tmp/myapp/credentials.json".plain]
# literal = "{}"
`

const yamlTemplate = `version: "%s"

profiles:
  default:
    env:
      # keep: ["^PATH$", "^LC_.*"]
      vars:
        APP_NAME:
          plain:
            literal: myapp
        # SECRET_TOKEN:
        #   secure:
        #     secret:
        #       pgp:
        #         file: /path/to/private.key
        #     value:
        #       literal: "-----BEGIN PGP MESSAGE-----..."
    # files:
    #   /tmp/myapp/credentials.json:
    #     plain:
    #       literal: "{}"
`

// Template returns an example manifest for path. YAML is used when the path
// ends in .yaml or .yml.
func Template(path, version string) string {
	if version == "" || version == DevVersion {
		version = "0.1.0"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fmt.Sprintf(yamlTemplate, version)
	}
	return fmt.Sprintf(tomlTemplate, version)
}
