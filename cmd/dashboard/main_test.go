package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/config"
)

const upstreamBody = `[
 {"Produto":"Geladeira","Categoria do Produto":"eletrodomesticos","Preço":2100.5,"Frete":110.2,
  "Data da Compra":"15/03/2022","Vendedor":"Ana","Local da compra":"PE","Avaliação da compra":5,
  "Tipo de pagamento":"cartao_credito","Quantidade de parcelas":10,"lat":-8.38,"lon":-37.86},
 {"Produto":"Mesa","Categoria do Produto":"moveis","Preço":350,"Frete":20,
  "Data da Compra":"02/11/2022","Vendedor":"Bruno","Local da compra":"BA","Avaliação da compra":4,
  "Tipo de pagamento":"boleto","Quantidade de parcelas":1,"lat":-13.29,"lon":-41.71}
]`

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ano") == "2023" {
			_, _ = io.WriteString(w, "[]")
			return
		}
		_, _ = io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("DATA_URL", srv.URL)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dashboard dev\n", out)
}

func TestExport_WritesFilteredCSV(t *testing.T) {
	fakeUpstream(t)
	dir := t.TempDir()

	out, err := execute(t, "export",
		"--regiao", "nordeste",
		"--filter", "vendedor=Ana",
		"--coluna", "vendedor", "--coluna", "Preço",
		"--out", filepath.Join(dir, "vendas"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 linhas")

	data, err := os.ReadFile(filepath.Join(dir, "vendas.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Vendedor,Preço\nAna,2100.5\n", string(data))
}

func TestExport_Stdout(t *testing.T) {
	fakeUpstream(t)
	out, err := execute(t, "export", "--coluna", "local", "--out", "-")
	require.NoError(t, err)
	assert.Equal(t, "Local da compra\nPE\nBA\n", out)
}

func TestExport_Errors(t *testing.T) {
	fakeUpstream(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad region", []string{"--regiao", "Europa"}, "invalid region"},
		{"bad year", []string{"--ano", "1990"}, "invalid year"},
		{"bad filter flag", []string{"--filter", "vendedor"}, "key=value"},
		{"bad range", []string{"--filter", "preco_min=abc"}, "invalid range"},
		{"unknown column", []string{"--coluna", "desconto"}, "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"export", "--out", "-"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSummary(t *testing.T) {
	fakeUpstream(t)

	out, err := execute(t, "summary", "--regiao", "Nordeste", "--ano", "2022")
	require.NoError(t, err)
	assert.Contains(t, out, "Nordeste/2022")
	assert.Contains(t, out, "R$ 2.45 mil")
	assert.Contains(t, out, "Ana")

	out, err = execute(t, "summary", "--ano", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma venda")

	out, err = execute(t, "summary", "--json", "--top-vendedores", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, `"Top-3 vendedores (receita)"`)
}

func TestSummary_Measure(t *testing.T) {
	fakeUpstream(t)

	out, err := execute(t, "summary", "--json", "--medida", "quantidade")
	require.NoError(t, err)
	assert.Contains(t, out, `"Quantidade de vendas por categoria"`)
	assert.NotContains(t, out, `"Receita por categoria"`)
	assert.Contains(t, out, `"name": "Vendedores"`)
	assert.Contains(t, out, `"value": 2100.5`)

	_, err = execute(t, "summary", "--medida", "media")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid measure")
}

func TestSummary_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()
	t.Setenv("DATA_URL", srv.URL)

	_, err := execute(t, "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream status 502")
}

func TestExportStore(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := exportStore(ctx, config.ExportCacheCfg{Driver: "memory", Size: 2})
	require.NoError(t, err)
	assert.NotNil(t, store)
	closeFn()

	store, _, err = exportStore(ctx, config.ExportCacheCfg{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, store)

	_, _, err = exportStore(ctx, config.ExportCacheCfg{Driver: "memcached"})
	assert.Error(t, err)
}

func TestExportStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, closeFn, err := exportStore(ctx, config.ExportCacheCfg{
		Driver:      "redis",
		RedisAddr:   mr.Addr(),
		TTL:         time.Minute,
		OpTimeout:   time.Second,
		PoolSize:    2,
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	assert.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+"k"))

	addr := mr.Addr()
	mr.Close()
	_, _, err = exportStore(ctx, config.ExportCacheCfg{Driver: "redis", RedisAddr: addr, DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}
