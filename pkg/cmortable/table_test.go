// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmortable_test

import (
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmcheck/pkg/cmortable"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

const amonTable = `{
  "Header": {
    "table_id": "Table Amon",
    "mip_era": "CMIP6",
    "realm": "atmos",
    "frequency": "mon",
    "approx_interval": "30.00000"
  },
  "variable_entry": {
    "tas": {
      "standard_name": "air_temperature",
      "long_name": "Near-Surface Air Temperature",
      "units": "K",
      "cell_methods": "area: time: mean",
      "dimensions": "longitude latitude time height2m",
      "positive": ""
    },
    "hfls": {
      "standard_name": "surface_upward_latent_heat_flux",
      "long_name": "Surface Upward Latent Heat Flux",
      "units": "W m-2",
      "dimensions": "longitude latitude time",
      "positive": "up"
    }
  }
}`

const omonTable = `{
  "Header": {
    "table_id": "Table Omon",
    "mip_era": "CMIP6",
    "realm": "ocean",
    "frequency": "mon"
  },
  "variable_entry": {
    "tos": {
      "standard_name": "sea_surface_temperature",
      "units": "degC",
      "dimensions": "longitude latitude time"
    }
  }
}`

const coordinateTable = `{
  "Header": {"table_id": "Table coordinate"},
  "axis_entry": {
    "time": {"standard_name": "time", "axis": "T", "units": "days since ?"},
    "longitude": {"standard_name": "longitude", "axis": "X", "units": "degrees_east", "out_name": "lon"},
    "latitude": {"standard_name": "latitude", "axis": "Y", "units": "degrees_north", "out_name": "lat"},
    "height2m": {"standard_name": "height", "axis": "Z", "units": "m"}
  }
}`

const customTable = `{
  "Header": {"table_id": "Table custom"},
  "variable_entry": {
    "swcre": {
      "standard_name": "",
      "long_name": "Shortwave Cloud Radiative Effect",
      "units": "W m-2",
      "dimensions": "longitude latitude time"
    }
  }
}`

func testRegistry(t *testing.T) *cmortable.Registry {
	t.Helper()

	rootFS := memfs.New()
	require.NoError(t, rootFS.MkdirAll("tables/cmip6", 0755))
	require.NoError(t, rootFS.MkdirAll("tables/custom", 0755))
	require.NoError(t, rootFS.WriteFile("tables/cmip6/CMIP6_Amon.json", []byte(amonTable), 0644))
	require.NoError(t, rootFS.WriteFile("tables/cmip6/CMIP6_Omon.json", []byte(omonTable), 0644))
	require.NoError(t, rootFS.WriteFile("tables/cmip6/CMIP6_coordinate.json", []byte(coordinateTable), 0644))
	require.NoError(t, rootFS.WriteFile("tables/custom/CMOR_swcre.json", []byte(customTable), 0644))

	registry := cmortable.NewRegistry(nil)
	require.NoError(t, registry.LoadDir(rootFS, "tables/cmip6"))
	require.NoError(t, registry.LoadCustomDir(rootFS, "tables/custom"))
	return registry
}

func TestRegistryLoadsTables(t *testing.T) {
	registry := testRegistry(t)
	require.Equal(t, []string{"Amon", "Omon"}, registry.MIPs(), "the coordinate table is not a mip")

	table, err := registry.Get("Amon")
	require.NoError(t, err)
	require.Equal(t, "atmos", table.Realm)
	require.Equal(t, "mon", table.Frequency)
	require.Len(t, table.Variables, 2)
}

func TestRegistryLoadsAxes(t *testing.T) {
	registry := testRegistry(t)

	axis, found := registry.Axis("longitude")
	require.True(t, found)
	require.Equal(t, "lon", axis.Name)
	require.Equal(t, "X", axis.Axis)
	require.Equal(t, "degrees_east", axis.Units)

	_, found = registry.Axis("depth_coord")
	require.False(t, found)
}

func TestParseTableAxisOnly(t *testing.T) {
	table, err := cmortable.ParseTable([]byte(coordinateTable))
	require.NoError(t, err)
	require.NotNil(t, table)
	require.Empty(t, table.Variables)
	require.Len(t, table.Axes, 4)
	require.Equal(t, "time", table.Axes["time"].StandardName)
}

func TestRegistryUnknownMIP(t *testing.T) {
	registry := testRegistry(t)

	_, err := registry.Get("Wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "known: Amon, Omon")
}

func TestLookupDirectAndFallback(t *testing.T) {
	registry := testRegistry(t)

	info, found, err := registry.Lookup("Amon", "tas")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "air_temperature", info.StandardName)
	require.Equal(t, "mon", info.Frequency, "table frequency fills missing entry frequency")

	// tos lives in Omon only; the Amon lookup falls through
	info, found, err = registry.Lookup("Amon", "tos")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Omon", info.Table)

	// swcre is a custom-overlay derived variable
	info, found, err = registry.Lookup("Amon", "swcre")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "custom", info.Table)

	_, found, err = registry.Lookup("Amon", "missing_everywhere")
	require.NoError(t, err)
	require.False(t, found)
}

func parseMeta(t *testing.T, src string) *yamlmeta.Map {
	t.Helper()
	docSet, err := yamlmeta.NewParser().ParseBytes([]byte(src), "meta.yml")
	require.NoError(t, err)
	return docSet.Items[0].Value.(*yamlmeta.Map)
}

func TestCheckVariableCompliant(t *testing.T) {
	registry := testRegistry(t)

	meta := parseMeta(t, `
mip: Amon
short_name: hfls
standard_name: surface_upward_latent_heat_flux
long_name: Surface Upward Latent Heat Flux
units: W m-2
frequency: mon
positive: up
dimensions: longitude latitude time
`)
	require.Empty(t, registry.CheckVariable(meta))
}

func TestCheckVariableViolations(t *testing.T) {
	registry := testRegistry(t)

	meta := parseMeta(t, `
mip: Amon
short_name: hfls
standard_name: wrong_name
units: K
frequency: mon
positive: up
dimensions: longitude latitude
`)
	errs := registry.CheckVariable(meta)
	require.Len(t, errs, 4, "standard_name, units, missing long_name, dimensions")

	all := ""
	for _, err := range errs {
		all += err.Error()
	}
	require.Contains(t, all, `"wrong_name"`)
	require.Contains(t, all, `units "W m-2" (table Amon)`)
	require.Contains(t, all, "meta.yml:4")
}

func TestCheckVariableUnknownDimension(t *testing.T) {
	registry := testRegistry(t)

	meta := parseMeta(t, `
mip: Amon
short_name: hfls
standard_name: surface_upward_latent_heat_flux
long_name: Surface Upward Latent Heat Flux
units: W m-2
frequency: mon
positive: up
dimensions: longitude latitude depth2m
`)
	errs := registry.CheckVariable(meta)

	all := ""
	for _, err := range errs {
		all += err.Error()
	}
	require.Contains(t, all, `"depth2m"`)
	require.Contains(t, all, "a dimension defined in the coordinate table")
}

func TestCheckVariableUnknownVariable(t *testing.T) {
	registry := testRegistry(t)

	errs := registry.CheckVariable(parseMeta(t, "mip: Amon\nshort_name: nope\n"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "a variable defined in table Amon")
}

func TestCheckVariableMissingKeys(t *testing.T) {
	registry := testRegistry(t)

	errs := registry.CheckVariable(parseMeta(t, "short_name: tas\n"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "MISSING KEY")
}
