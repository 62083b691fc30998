// Пакет role — закрытый перечень ролей и проверка пересечения наборов.
// Авторизация по принципу OR: достаточно одной из требуемых ролей.
package role

// Role — роль пользователя. Закрытое перечисление, новые значения
// добавляются только в конец.
type Role int

// Роли Auth Module.
const (
	Undefined      Role = 0
	Base           Role = 1
	ManageUsers    Role = 2
	ManageTasks    Role = 3
	ManageNodes    Role = 4
	ManageSessions Role = 5
)

// names — человекочитаемые имена ролей для логов.
var names = map[Role]string{
	Undefined:      "undefined",
	Base:           "base",
	ManageUsers:    "manage_users",
	ManageTasks:    "manage_tasks",
	ManageNodes:    "manage_nodes",
	ManageSessions: "manage_sessions",
}

// String возвращает имя роли. Для неизвестных значений — "undefined".
func (r Role) String() string {
	if name, ok := names[r]; ok {
		return name
	}
	return names[Undefined]
}

// IsValid проверяет, входит ли значение в закрытый перечень.
// Undefined допустимым значением не считается.
func (r Role) IsValid() bool {
	return r >= Base && r <= ManageSessions
}

// Intersects проверяет непустое пересечение двух наборов ролей.
// Порядок элементов и дубликаты значения не имеют.
func Intersects(have, required []Role) bool {
	set := make(map[Role]bool, len(have))
	for _, r := range have {
		set[r] = true
	}
	for _, r := range required {
		if set[r] {
			return true
		}
	}
	return false
}

// Diff вычисляет разницу наборов для согласующей записи ролей:
// toRemove = current − desired, toAdd = desired − current.
// Если оба результата пусты — запись в хранилище не требуется.
func Diff(current, desired []Role) (toRemove, toAdd []Role) {
	currentSet := make(map[Role]bool, len(current))
	for _, r := range current {
		currentSet[r] = true
	}
	desiredSet := make(map[Role]bool, len(desired))
	for _, r := range desired {
		desiredSet[r] = true
	}

	for _, r := range current {
		if !desiredSet[r] {
			toRemove = append(toRemove, r)
		}
	}
	for _, r := range desired {
		if !currentSet[r] && desiredSet[r] {
			toAdd = append(toAdd, r)
			desiredSet[r] = false // защита от дубликатов во входном срезе
		}
	}
	return toRemove, toAdd
}
