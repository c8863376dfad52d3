package contextstate

import "github.com/Cyclone1070/aiterm/internal/tool/helper/content"

func (s *State) readFile(path string) FileContent {
	data, err := s.fs.ReadFile(path, s.maxFileSize)
	if err != nil {
		return FileContent{Err: &ReadError{Message: "Error reading file: " + err.Error()}}
	}
	text, err := content.Text(data)
	if err != nil {
		return FileContent{Err: &ReadError{Message: "Error reading file: [" + err.Error() + "]"}}
	}
	return FileContent{Text: text}
}

func (s *State) readDirectory(path string) DirectoryEntries {
	dirEntries, err := s.fs.ReadDir(path)
	if err != nil {
		return DirectoryEntries{Err: &ReadError{Message: "Error reading directory: " + err.Error()}}
	}
	entries := make([]DirectoryEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, DirectoryEntry{
			Name:        e.Name(),
			IsFile:      e.Type().IsRegular(),
			IsDirectory: e.IsDir(),
		})
	}
	return DirectoryEntries{Entries: entries}
}
