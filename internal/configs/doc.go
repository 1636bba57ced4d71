// Package configs loads user-level settings for secenv and provides the
// TOML helpers used by the manifest loader.
//
// Settings live at $XDG_CONFIG_HOME/secenv/config.yaml and every key can be
// overridden with a SECENV_ environment variable, dots replaced by
// underscores:
//
//	concurrency: 4            # SECENV_CONCURRENCY
//	backend_timeout: 30s      # SECENV_BACKEND_TIMEOUT
//	gcp:
//	  backend: sdk            # or gcloud
//	  gcloud_path: gcloud
//	gpg:
//	  path: gpg
//	aws:
//	  region: eu-west-1
//	infisical:
//	  site_url: https://app.infisical.com
//	  token_env: INFISICAL_TOKEN
//	passphrase:
//	  env: SECENV_PASSPHRASE
//	  prompt: true
//	audit:
//	  enabled: false
//
// Settings never hold secret material. Credentials for cloud backends come
// from the backends' own ambient mechanisms.
package configs
