package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storeflow-api/pkg/normalize"
)

func TestKey_QuitaTildesYEspacios(t *testing.T) {
	assert.Equal(t, "camisanandu01", normalize.Key("Camisa Ñandú 01"))
	assert.Equal(t, "pantalonazul", normalize.Key("Pantalón - Azul"))
	assert.Equal(t, "abc123", normalize.Key("ABC_1.2 3"))
}

func TestKey_TextoYaLimpio(t *testing.T) {
	assert.Equal(t, "zapato42", normalize.Key("zapato42"))
}

func TestKey_Vacio(t *testing.T) {
	assert.Equal(t, "", normalize.Key(""))
}
