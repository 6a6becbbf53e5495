// Package docs provides generated OpenAPI documentation.
//
// docsort API
//
//	@title			docsort API
//	@version		1.0
//	@description	Manual PDF triage: present each queued document with its text layer and page renderings, then sort it into a bucket.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/docsort
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8501
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/docsort/serve.go -o ./swagger --outputTypes go --parseDependency --parseInternal
