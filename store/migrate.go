package store

// Import copies the keys held by src into the document and commits. Keys
// already present are kept unless overwrite is set. It returns the number of
// keys copied.
func (d *Document) Import(src Backend, overwrite bool) (int, error) {
	values, err := src.Load()
	if err != nil {
		return 0, errRead.Wrap(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var n int

	for k, v := range values {
		if _, exists := d.values[k]; exists && !overwrite {
			continue
		}

		d.values[k] = v
		n++
	}

	if n == 0 {
		return 0, nil
	}

	return n, d.commit()
}
