// Package camfs provides a small HTTP file browser and streamer for camera
// devices that store JPEG captures on flash or on a removable card.
//
// camfs joins a WiFi network through a pluggable Network, lists the image
// files found at the root of a FileStore and streams a selected file back to
// the requesting client.
//
// # Key Components
//
//   - Connector: joins the network in station mode with a timeout and an optional tick callback
//   - Catalog: builds the filtered, capped listing and opens files for viewing
//   - FileStore: interface for the hierarchical store (flash image, SD card)
//   - Network: interface for the WiFi collaborator (station, access point, addresses)
//
// # Example Usage
//
//	catalog := camfs.NewCatalog(store)
//	entries, err := catalog.List(ctx, 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, e := range entries {
//	    fmt.Println(i+1, e.Name(), camfs.FormatBytes(uint64(e.Size)))
//	}
//
// See the http package for the route table and the server package for the
// session that ties connectivity, routes and the listener together.
package camfs
