package http

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

const swaggerInstance = "dispatch"

var registerSwagger sync.Once

type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string {
	return d.json
}

// registerAPIDoc publishes the document to swag so echo-swagger can serve it as doc.json.
func registerAPIDoc(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}
	registerSwagger.Do(func() {
		swag.Register(swaggerInstance, openAPIDoc{json: string(raw)})
	})
	return nil
}

var swaggerHandler = echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(swaggerInstance))
